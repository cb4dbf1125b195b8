package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8*time.Second, cfg.FetchTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AVESTO_ADDR", ":9000")
	t.Setenv("AVESTO_CACHE_TTL", "30s")
	t.Setenv("AVESTO_FETCH_TIMEOUT", "15")
	t.Setenv("AVESTO_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvDurationBadValueFallsBack(t *testing.T) {
	t.Setenv("AVESTO_CACHE_TTL", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}
