package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.FlushInterval)
	require.Equal(t, 5*time.Second, cfg.FlushTimeout)
	require.Equal(t, 20, cfg.BufferLimit)
	require.Equal(t, 100, cfg.HistoryLimit)
	require.Equal(t, 2*time.Second, cfg.TypingTimeout)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FLUSH_INTERVAL", "250ms")
	t.Setenv("BUFFER_LIMIT", "5")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("TYPING_TIMEOUT", "1s")
	t.Setenv("CORS_ALLOW", "https://a.example, https://b.example")

	cfg := LoadConfig()

	require.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
	require.Equal(t, 5, cfg.BufferLimit)
	require.Equal(t, 10, cfg.HistoryLimit)
	require.Equal(t, time.Second, cfg.TypingTimeout)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllow)
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	t.Setenv("FLUSH_INTERVAL", "soon")
	t.Setenv("BUFFER_LIMIT", "-3")

	cfg := LoadConfig()

	require.Equal(t, 10*time.Second, cfg.FlushInterval)
	require.Equal(t, 20, cfg.BufferLimit)
}
