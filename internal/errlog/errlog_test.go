package errlog_test

import (
	"testing"

	"github.com/pkoster/checkout-gateway/internal/errlog"
)

func TestLogPreservesInsertionOrder(t *testing.T) {
	log := errlog.New()
	log.Append("first")
	log.Append("second")
	log.Append("first")

	got := log.All()
	want := []string{"first", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLogEmpty(t *testing.T) {
	log := errlog.New()
	if !log.Empty() {
		t.Error("new log must be empty")
	}
	if log.All() == nil {
		t.Error("All must not return nil even when empty")
	}

	log.Append("boom")
	if log.Empty() {
		t.Error("log with one message must not be empty")
	}
}
