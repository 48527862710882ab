package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

// StubConfig configures the in-memory development backend.  The token TTL
// fields mirror the real service so refresh behaviour can be exercised
// locally with short lifetimes.
type StubConfig struct {
	Env            string        // APP_ENV
	Port           string        // APP_PORT
	JWTSecret      string        // JWT_SECRET, required in production
	AccessTTL      time.Duration // ACCESS_TOKEN_TTL_MIN in minutes
	RefreshTTLDays int           // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int           // BCRYPT_COST
	SeedBalance    float64       // STUB_SEED_BALANCE, wallet balance of seeded users
	RequestLimit   float64       // STUB_RATE_LIMIT requests per second, 0 disables
}

// LoadStub reads .env (if present) and the stub server configuration.
func LoadStub() (StubConfig, error) {
	_ = godotenv.Load()

	cfg := StubConfig{
		Env:            envStr("APP_ENV", "development"),
		Port:           envStr("APP_PORT", "8080"),
		JWTSecret:      envStr("JWT_SECRET", ""),
		AccessTTL:      time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		SeedBalance:    envFloat("STUB_SEED_BALANCE", 2000),
		RequestLimit:   envFloat("STUB_RATE_LIMIT", 0),
	}
	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return StubConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTLDays < 1 {
		cfg.RefreshTTLDays = 1
	}
	return cfg, nil
}
