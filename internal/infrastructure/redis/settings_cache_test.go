package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

type fakeCacheClient struct {
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	gets    int
	lastTTL time.Duration
}

func newFakeCacheClient() *fakeCacheClient {
	return &fakeCacheClient{values: make(map[string]string)}
}

func (f *fakeCacheClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.gets++
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.sets++
	f.lastTTL = expiration
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	f.values[key] = string(value.([]byte))
	return goredis.NewStatusResult("OK", nil)
}

type countingResolver struct {
	settings method.Settings
	err      error
	calls    int
}

func (r *countingResolver) Resolve(ctx context.Context, m transaction.Method) (method.Settings, error) {
	r.calls++
	return r.settings, r.err
}

func TestSettingsCacheReadsThroughOnMiss(t *testing.T) {
	client := newFakeCacheClient()
	inner := &countingResolver{settings: method.Settings{PaymentAction: transaction.OperationReserve, EnableBIC: true}}
	cache := NewSettingsCache(inner, client, 30*time.Second, zerolog.Nop())

	s, err := cache.Resolve(context.Background(), transaction.MethodSEPA)
	require.NoError(t, err)
	assert.Equal(t, inner.settings, s)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, client.sets)
	assert.Equal(t, 30*time.Second, client.lastTTL)
}

func TestSettingsCacheServesHitWithoutInnerResolver(t *testing.T) {
	client := newFakeCacheClient()
	stored := method.Settings{PaymentAction: transaction.OperationPay, Descriptor: true}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	client.values[settingsKeyPrefix+"sepa"] = string(payload)

	inner := &countingResolver{}
	cache := NewSettingsCache(inner, client, 30*time.Second, zerolog.Nop())

	s, err := cache.Resolve(context.Background(), transaction.MethodSEPA)
	require.NoError(t, err)
	assert.Equal(t, stored, s)
	assert.Equal(t, 0, inner.calls)
}

func TestSettingsCacheFailsOpen(t *testing.T) {
	client := newFakeCacheClient()
	client.getErr = errors.New("redis down")
	client.setErr = errors.New("redis down")

	inner := &countingResolver{settings: method.Settings{PaymentAction: transaction.OperationPay}}
	cache := NewSettingsCache(inner, client, 30*time.Second, zerolog.Nop())

	s, err := cache.Resolve(context.Background(), transaction.MethodIdeal)
	require.NoError(t, err)
	assert.Equal(t, inner.settings, s)
	assert.Equal(t, 1, inner.calls)
}

func TestSettingsCacheDiscardsMalformedEntry(t *testing.T) {
	client := newFakeCacheClient()
	client.values[settingsKeyPrefix+"ideal"] = "{not json"

	inner := &countingResolver{settings: method.Settings{PaymentAction: transaction.OperationPay}}
	cache := NewSettingsCache(inner, client, 30*time.Second, zerolog.Nop())

	s, err := cache.Resolve(context.Background(), transaction.MethodIdeal)
	require.NoError(t, err)
	assert.Equal(t, inner.settings, s)
	assert.Equal(t, 1, inner.calls)
}
