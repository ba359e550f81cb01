package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CheckoutRateRPM: 120,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "gateway",
			Database: "gateway",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Backend: BackendConfig{
			BaseURL:        "https://backend.example",
			RequestTimeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			Active:          true,
			PublicURL:       "https://shop.example",
			OrderPageURL:    "https://shop.example/order",
			NotificationTTL: 24 * time.Hour,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_BackendURLRequiredWithoutMock(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.base_url")

	cfg.Backend.UseMock = true
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestConfig_Validate_NotificationTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.NotificationTTL = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway.notification_ttl")
}

func TestDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "disable"

	dsn := cfg.Database.DatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=gateway")
	assert.Contains(t, dsn, "sslmode=disable")
}
