package config

// RateLimitConfig bounds how fast the client sends requests to the API.
// A scripted CLI loop can otherwise hammer the search endpoint; the
// limiter is a local token bucket with the given burst.
type RateLimitConfig struct {
	Enabled   bool
	PerSecond float64 // BUS_API_RATE_LIMIT
	Burst     int     // BUS_API_RATE_BURST
}

// LoadRateLimitConfig reads the limiter settings.  A zero or negative rate
// disables limiting.
func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		PerSecond: envFloat("BUS_API_RATE_LIMIT", 0),
		Burst:     envInt("BUS_API_RATE_BURST", 5),
	}
	def.Enabled = def.PerSecond > 0
	if def.Burst < 1 {
		def.Burst = 1
	}
	return def
}
