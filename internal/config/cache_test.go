package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfig_Defaults(t *testing.T) {
	cfg := LoadCacheConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
	assert.Equal(t, "cache", cfg.Prefix)
}

func TestLoadCacheConfig_FromEnv(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_PREFIX", "tb")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.TTL)
	assert.Equal(t, "tb", cfg.Prefix)
}

func TestLoadCacheConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "definitely")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("CACHE_MAX_BODY_BYTES", "big")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}
