package config

import (
	"os"
	"strings"
)

// SummaryMode controla cómo se genera el resumen clínico.
const (
	SummaryModeTemplate = "template"
	SummaryModeLLM      = "llm"
)

const defaultOpenRouterModel = "openai/gpt-4o-mini"

// Config agrupa toda la configuración del proceso.
type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	SummaryMode      string
	OpenRouterAPIKey string
	OpenRouterModel  string

	LogLevel  string
	LogFormat string

	SeedData bool
}

// Load lee la configuración desde env:
// - PORT (default 8080)
// - DATABASE_URL (vacío => repos in-memory)
// - BACKEND_CORS_ORIGINS=orígenes separados por coma
// - SUMMARY_MODE=template|llm (default template)
// - OPENROUTER_API_KEY, OPENROUTER_MODEL
// - LOG_LEVEL, LOG_FORMAT
// - SEED_DATA=true para sembrar pacientes de ejemplo
func Load() Config {
	cfg := Config{
		Port:             envOr("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CORSOrigins:      splitOrigins(os.Getenv("BACKEND_CORS_ORIGINS")),
		SummaryMode:      envOr("SUMMARY_MODE", SummaryModeTemplate),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:  envOr("OPENROUTER_MODEL", defaultOpenRouterModel),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
		SeedData:         parseBool(os.Getenv("SEED_DATA")),
	}
	return cfg
}

// LLMEnabled indica si el path LLM puede intentarse en este proceso.
func (c Config) LLMEnabled() bool {
	return c.SummaryMode == SummaryModeLLM && strings.TrimSpace(c.OpenRouterAPIKey) != ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitOrigins(raw string) []string {
	out := make([]string, 0)
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
