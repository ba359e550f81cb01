package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const maxNotificationBodySize = 1 << 20

// ReplayGuard reports whether a notification key is seen for the first time.
type ReplayGuard interface {
	FirstDelivery(ctx context.Context, key string) (bool, error)
}

// NotificationReplay short-circuits duplicate notification deliveries before
// they reach the post-processing orchestrator. The guard is best-effort: if
// it cannot be consulted the delivery passes through, since redispatching is
// the backend's expectation when in doubt.
func NotificationReplay(guard ReplayGuard, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxNotificationBodySize))
			if err != nil {
				http.Error(w, "unreadable body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var probe struct {
				Operation     string `json:"operation"`
				TransactionID string `json:"transaction_id"`
			}
			if err := json.Unmarshal(body, &probe); err != nil || probe.TransactionID == "" {
				// malformed payloads are the handler's problem
				next.ServeHTTP(w, r)
				return
			}

			first, err := guard.FirstDelivery(r.Context(), probe.Operation+":"+probe.TransactionID)
			if err != nil {
				logger.Warn().Err(err).Msg("replay guard unavailable, letting notification through")
				next.ServeHTTP(w, r)
				return
			}
			if !first {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{"status": "duplicate"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
