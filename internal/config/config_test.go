package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACTIVE_LLM", "")
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 60*time.Second, cfg.Ai.Timeout)
	assert.Nil(t, cfg.Ai.Temperature)
	assert.Equal(t, "local", cfg.Lock.Backend)
	assert.Equal(t, 10*time.Second+2*60*time.Second+30*time.Second, cfg.Lock.TTL)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLockTTLCoversTurnHold(t *testing.T) {
	tests := []struct {
		name  string
		lock  string
		llm   string
		scrub string
		want  time.Duration
	}{
		{"derived when unset", "", "90", "5s", 5*time.Second + 180*time.Second + 30*time.Second},
		{"short value is raised", "30s", "60", "10s", 160 * time.Second},
		{"longer value is kept", "10m", "60", "10s", 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOCK_TTL", tt.lock)
			t.Setenv("LLM_TIMEOUT", tt.llm)
			t.Setenv("SCRUBBER_TIMEOUT", tt.scrub)

			cfg := Load()

			assert.Equal(t, tt.want, cfg.Lock.TTL)
			assert.GreaterOrEqual(t, cfg.Lock.TTL, cfg.Scrubber.Timeout+2*cfg.Ai.Timeout)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACTIVE_LLM", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_TIMEOUT", "15")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("SCRUBBER_ENABLED", "false")
	t.Setenv("SCRUBBER_TIMEOUT", "750ms")
	t.Setenv("LOCK_BACKEND", "REDIS")
	t.Setenv("ARCHIVE_ENDPOINT", "minio:9000")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, "gemini", cfg.Ai.ActiveLLM)
	assert.Equal(t, "g-key", cfg.Ai.Active().APIKey)
	assert.Equal(t, 15*time.Second, cfg.Ai.Timeout)
	require.NotNil(t, cfg.Ai.Temperature)
	assert.InDelta(t, 0.2, *cfg.Ai.Temperature, 1e-9)
	assert.False(t, cfg.Scrubber.Enabled)
	assert.Equal(t, 750*time.Millisecond, cfg.Scrubber.Timeout)
	assert.Equal(t, "redis", cfg.Lock.Backend)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.App.IsProduction())
}

func TestActiveFallsBackToDeepSeek(t *testing.T) {
	cfg := AIConfig{ActiveLLM: "unknown", DeepSeek: ProviderCredentials{Model: "deepseek-chat"}}
	assert.Equal(t, "deepseek-chat", cfg.Active().Model)
}
