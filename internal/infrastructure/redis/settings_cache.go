package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

const settingsKeyPrefix = "method_settings:"

// settingsCacheClient is the slice of the redis client the cache uses.
type settingsCacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SettingsCache is a read-through cache decorator around a settings resolver.
// Entries expire after ttl; there is no explicit invalidation, so settings
// changes become visible within one TTL. Cache failures degrade to the inner
// resolver, they never fail a request.
type SettingsCache struct {
	inner  method.SettingsResolver
	client settingsCacheClient
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSettingsCache(inner method.SettingsResolver, client settingsCacheClient, ttl time.Duration, logger zerolog.Logger) *SettingsCache {
	return &SettingsCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Resolve implements method.SettingsResolver.
func (c *SettingsCache) Resolve(ctx context.Context, m transaction.Method) (method.Settings, error) {
	key := settingsKeyPrefix + string(m)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var s method.Settings
		if err := json.Unmarshal(cached, &s); err == nil {
			return s, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding malformed settings cache entry")
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("settings cache read failed")
	}

	s, err := c.inner.Resolve(ctx, m)
	if err != nil {
		return method.Settings{}, err
	}

	if payload, err := json.Marshal(s); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("settings cache write failed")
		}
	}
	return s, nil
}
