package config // package config loads client and stub server configuration from the environment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the client runtime configuration.  Each field corresponds to
// an environment variable; every variable has a default so the CLI works
// against a local stub server with no setup.
type Config struct {
	Env            string          // APP_ENV (development, production)
	LogLevel       string          // LOG_LEVEL (debug, info, warn, error)
	APIBaseURL     string          // BUS_API_URL
	RequestTimeout time.Duration   // BUS_API_TIMEOUT, fixed per request
	RateLimit      RateLimitConfig // BUS_API_RATE_LIMIT, BUS_API_RATE_BURST
	TokenStore     string          // BUS_TOKEN_STORE: file, redis or memory
	TokenFile      string          // BUS_TOKEN_FILE
	Redis          RedisConfig     // REDIS_* settings for the redis token store
	AMQPURL        string          // AMQP_URL or RABBITMQ_URL; empty disables booking events
}

// Load reads .env (if present) and then the process environment.  Values
// already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:            envStr("APP_ENV", "development"),
		LogLevel:       envStr("LOG_LEVEL", "warn"),
		APIBaseURL:     envStr("BUS_API_URL", "http://localhost:8080"),
		RequestTimeout: envDur("BUS_API_TIMEOUT", 10*time.Second),
		RateLimit:      LoadRateLimitConfig(),
		TokenStore:     envStr("BUS_TOKEN_STORE", StoreFile),
		TokenFile:      envStr("BUS_TOKEN_FILE", defaultTokenFile()),
		Redis:          LoadRedisConfig(),
		AMQPURL:        amqpURL(),
	}
	switch cfg.TokenStore {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return Config{}, fmt.Errorf("invalid BUS_TOKEN_STORE %q (want file, redis or memory)", cfg.TokenStore)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return cfg, nil
}

// IsProduction reports whether the production logger and defaults apply.
func (c Config) IsProduction() bool { return c.Env == "production" }

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".busctl-tokens.json")
	}
	return filepath.Join(dir, "busctl", "tokens.json")
}

func amqpURL() string {
	if v := os.Getenv("AMQP_URL"); v != "" {
		return v
	}
	return os.Getenv("RABBITMQ_URL")
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
