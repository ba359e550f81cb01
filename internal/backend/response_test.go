package backend_test

import (
	"testing"

	"github.com/pkoster/checkout-gateway/internal/backend"
)

func TestFailureMessageConcatenatesInOrder(t *testing.T) {
	resp := &backend.Response{
		Kind: backend.KindFailure,
		Statuses: []backend.Status{
			{Code: "500.1072", Description: "The amount is invalid. ", Severity: "error"},
			{Code: "500.1073", Description: "The currency is missing.", Severity: "error"},
		},
	}

	got := resp.FailureMessage()
	want := "The amount is invalid. The currency is missing."
	if got != want {
		t.Errorf("FailureMessage = %q, want %q", got, want)
	}
}

func TestFailureMessageWithoutStatuses(t *testing.T) {
	resp := &backend.Response{Kind: backend.KindFailure}
	if got := resp.FailureMessage(); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
}
