package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUS_API_URL", "")
	t.Setenv("BUS_TOKEN_STORE", "")
	t.Setenv("BUS_API_RATE_LIMIT", "")
	t.Setenv("BUS_API_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, StoreFile, cfg.TokenStore)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.NotEmpty(t, cfg.TokenFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BUS_API_URL", "https://api.example.test")
	t.Setenv("BUS_API_TIMEOUT", "3s")
	t.Setenv("BUS_API_RATE_LIMIT", "2.5")
	t.Setenv("BUS_API_RATE_BURST", "0")
	t.Setenv("BUS_TOKEN_STORE", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AMQP_URL", "")
	t.Setenv("RABBITMQ_URL", "amqp://broker/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.PerSecond)
	assert.Equal(t, 1, cfg.RateLimit.Burst)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "amqp://broker/", cfg.AMQPURL)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("BUS_TOKEN_STORE", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadStubRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := LoadStub()
	assert.Error(t, err)

	t.Setenv("APP_ENV", "development")
	cfg, err := LoadStub()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
}
