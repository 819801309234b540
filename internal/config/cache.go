package config

import (
	"os"
	"time"
)

// CacheConfig controls the optional Redis response cache. The cache is off
// unless CACHE_ENABLED is set; when Redis is unreachable the middleware
// degrades to a pass-through, so the API never depends on it.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	MaxBodyBytes int
	Prefix       string
}

// LoadCacheConfig reads cache settings from the environment.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", false),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
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
