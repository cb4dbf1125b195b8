// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs to start.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// ProviderBaseURL is the financial data provider endpoint.
	ProviderBaseURL string

	// ProviderAPIKey authenticates against the provider.
	ProviderAPIKey string

	// AnthropicAPIKey enables the LLM narrator. Empty disables it; the
	// deterministic template narrator is used instead.
	AnthropicAPIKey string

	// Model is the Claude model used for narration.
	Model string

	// HistoryPath is the SQLite file for analysis history. Empty disables
	// persistence.
	HistoryPath string

	// CacheTTL is how long snapshots stay cached. Zero disables caching.
	CacheTTL time.Duration

	// FetchTimeout bounds each provider fetch.
	FetchTimeout time.Duration

	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, without overriding real environment
// variables.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            envString("AVESTO_ADDR", ":8080"),
		ProviderBaseURL: envString("AVESTO_PROVIDER_URL", "http://localhost:8085"),
		ProviderAPIKey:  os.Getenv("AVESTO_PROVIDER_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           envString("AVESTO_MODEL", "claude-sonnet-4-5"),
		HistoryPath:     envString("AVESTO_HISTORY_DB", "avesto.db"),
		CacheTTL:        envDuration("AVESTO_CACHE_TTL", 5*time.Minute),
		FetchTimeout:    envDuration("AVESTO_FETCH_TIMEOUT", 8*time.Second),
		LogLevel:        envString("AVESTO_LOG_LEVEL", "info"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
