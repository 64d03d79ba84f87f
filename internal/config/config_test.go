package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_INT", "42")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DUR", "90s")

	require.Equal(t, "value", getenv("X_STR", "def"))
	require.Equal(t, "def", getenv("X_MISSING", "def"))

	require.Equal(t, 42, envInt("X_INT", 7))
	require.Equal(t, 7, envInt("X_MISSING", 7))

	require.True(t, envBool("X_BOOL", false))
	require.False(t, envBool("X_MISSING", false))
	require.True(t, envBool("X_MISSING", true))

	require.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	require.Equal(t, time.Second, envDur("X_MISSING", time.Second))

	t.Setenv("X_DUR", "nonsense")
	require.Equal(t, time.Second, envDur("X_DUR", time.Second))
}

func TestConfigTTLs(t *testing.T) {
	t.Parallel()

	cfg := Config{AccessTTLMin: 15, RefreshTTLDays: 10}
	require.Equal(t, 15*time.Minute, cfg.AccessTTL())
	require.Equal(t, 240*time.Hour, cfg.RefreshTTL())
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	require.Equal(t, 10*time.Second, cfg.TTL) // raised to 5x interval
}
