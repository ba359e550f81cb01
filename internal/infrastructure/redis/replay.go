package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "notification:"

// ReplayGuard remembers delivered notifications so duplicate deliveries can
// be short-circuited before they reach the orchestrator. The payment backend
// redelivers notifications at-least-once; the orchestrator itself does not
// de-duplicate.
type ReplayGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReplayGuard(client *redis.Client, ttl time.Duration) *ReplayGuard {
	return &ReplayGuard{client: client, ttl: ttl}
}

// FirstDelivery marks the key as seen and reports whether this was the first
// delivery within the TTL window.
func (g *ReplayGuard) FirstDelivery(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, replayKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard: %w", err)
	}
	return ok, nil
}
