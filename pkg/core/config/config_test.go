package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.DelaySeconds)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 7, cfg.DaysBack)
	assert.Equal(t, 5, cfg.AnalysisLimit)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Equal(t, time.Hour, cfg.CacheTTLFilings)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTLDocuments)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, []string{"one_line_summary", "executive_summary"}, cfg.AnalysisTypes)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadShortAPIKey(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRangeValidation(t *testing.T) {
	cases := []struct {
		name  string
		env   string
		value string
	}{
		{"retries too high", "MAX_RETRIES", "11"},
		{"retries zero", "MAX_RETRIES", "0"},
		{"delay too high", "DELAY_SECONDS", "61"},
		{"days back too high", "DAYS_BACK", "366"},
		{"analysis limit too high", "ANALYSIS_LIMIT", "101"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("EDINET_API_KEY", "0123456789abcdef")
			t.Setenv(tc.env, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadNonIntegerEnv(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")
	t.Setenv("MAX_RETRIES", "three")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTTLSeconds(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")
	t.Setenv("CACHE_TTL_FILINGS", "600")
	t.Setenv("CACHE_TTL_DOCUMENTS", "2h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTLFilings)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTLDocuments)
}

func TestLoadLLMKeyFallback(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-0123456789")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-0123456789", cfg.LLMAPIKey)
}

func TestWarnings(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Warnings(), 2)
}

func TestAnalysisTypesList(t *testing.T) {
	t.Setenv("EDINET_API_KEY", "0123456789abcdef")
	t.Setenv("ANALYSIS_TYPES", " one_line_summary , executive_summary ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"one_line_summary", "executive_summary"}, cfg.AnalysisTypes)
}
