package config

import (
	"testing"

	apperrors "boardroom/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "PORT", "CHART_DIR", "CSV_CHUNK_WORKERS", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.AI.Provider)
	assert.Equal(t, DefaultMaxTokens, cfg.AI.MaxTokens)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(DefaultChunkThresholdBytes), cfg.Loader.ChunkThresholdBytes)
	assert.Equal(t, 4, cfg.Loader.Workers)
	assert.Equal(t, DefaultMaxSessions, cfg.Server.MaxSessions)
	assert.Empty(t, cfg.Charts.Dir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "  OpenAI ")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MAX_TOKENS", "128")
	t.Setenv("CHART_DIR", "/tmp/charts")
	t.Setenv("PROMPTS_DIR", "/etc/prompts")
	t.Setenv("CSV_CHUNK_THRESHOLD_BYTES", "1024")
	t.Setenv("CSV_CHUNK_SIZE_BYTES", "5368709120")
	t.Setenv("MAX_SESSIONS", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey())
	assert.Equal(t, 128, cfg.AI.MaxTokens)
	assert.Equal(t, "/tmp/charts", cfg.Charts.Dir)
	assert.Equal(t, "/etc/prompts", cfg.AI.PromptsDir)
	assert.Equal(t, int64(1024), cfg.Loader.ChunkThresholdBytes)
	assert.Equal(t, int64(5<<30), cfg.Loader.ChunkSizeBytes)
	assert.Equal(t, 3, cfg.Server.MaxSessions)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "-1")

	_, err := Load()

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
}

func TestAPIKey_PerProvider(t *testing.T) {
	c := AIConfig{AnthropicKey: "a", CohereKey: "c", HuggingFaceToken: "h", GeminiKey: "g"}
	for provider, want := range map[string]string{"anthropic": "a", "cohere": "c", "huggingface": "h", "gemini": "g", "unknown": ""} {
		c.Provider = provider
		assert.Equal(t, want, c.APIKey(), provider)
	}
}
