package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	first bool
	err   error
	keys  []string
}

func (g *fakeGuard) FirstDelivery(_ context.Context, key string) (bool, error) {
	g.keys = append(g.keys, key)
	return g.first, g.err
}

func notificationRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/notifications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNotificationReplayPassesFirstDelivery(t *testing.T) {
	guard := &fakeGuard{first: true}
	called := false
	handler := NotificationReplay(guard, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		// The body must still be readable downstream.
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "capture")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, notificationRequest(`{"operation":"capture","transaction_id":"tx-1"}`))

	assert.True(t, called)
	require.Len(t, guard.keys, 1)
	assert.Equal(t, "capture:tx-1", guard.keys[0])
}

func TestNotificationReplayShortCircuitsDuplicate(t *testing.T) {
	guard := &fakeGuard{first: false}
	called := false
	handler := NotificationReplay(guard, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, notificationRequest(`{"operation":"capture","transaction_id":"tx-1"}`))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
}

func TestNotificationReplayFailsOpen(t *testing.T) {
	guard := &fakeGuard{err: errors.New("redis down")}
	called := false
	handler := NotificationReplay(guard, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, notificationRequest(`{"operation":"capture","transaction_id":"tx-1"}`))

	assert.True(t, called)
}

func TestNotificationReplayIgnoresMalformedBody(t *testing.T) {
	guard := &fakeGuard{first: false}
	called := false
	handler := NotificationReplay(guard, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, notificationRequest(`{not json`))

	// Malformed payloads reach the handler so it can reject them itself.
	assert.True(t, called)
	assert.Empty(t, guard.keys)
}
