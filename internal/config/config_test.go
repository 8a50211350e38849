package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "BACKEND_CORS_ORIGINS", "SUMMARY_MODE",
		"OPENROUTER_API_KEY", "OPENROUTER_MODEL", "LOG_LEVEL", "LOG_FORMAT", "SEED_DATA",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, SummaryModeTemplate, cfg.SummaryMode)
	assert.Equal(t, defaultOpenRouterModel, cfg.OpenRouterModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.SeedData)
	assert.False(t, cfg.LLMEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BACKEND_CORS_ORIGINS", "http://localhost:3000, https://app.example.com ,")
	t.Setenv("SUMMARY_MODE", "llm")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("SEED_DATA", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedData)
	assert.True(t, cfg.LLMEnabled())
}

func TestLLMEnabled_RequiresKey(t *testing.T) {
	cfg := Config{SummaryMode: SummaryModeLLM}
	assert.False(t, cfg.LLMEnabled(), "llm mode without api key stays disabled")

	cfg.OpenRouterAPIKey = "sk-test"
	assert.True(t, cfg.LLMEnabled())

	cfg.SummaryMode = SummaryModeTemplate
	assert.False(t, cfg.LLMEnabled())
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes "} {
		assert.True(t, parseBool(v), "%q", v)
	}
	for _, v := range []string{"", "0", "false", "no", "off"} {
		assert.False(t, parseBool(v), "%q", v)
	}
}
