package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	Model           string
	CacheMaxEntries int
	CacheTTLMinutes int
	GenMaxAttempts  int
	GenRetryDelayMS int
}

func Load() Config {
	return Config{
		Port:            envInt("VERBATIM_PORT", 8760),
		NatsURL:         envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   envStr("OPENAI_BASE_URL", ""),
		Model:           envStr("VERBATIM_MODEL", "gpt-4o-mini"),
		CacheMaxEntries: envInt("VERBATIM_CACHE_MAX_ENTRIES", 256),
		CacheTTLMinutes: envInt("VERBATIM_CACHE_TTL_MINUTES", 60),
		GenMaxAttempts:  envInt("VERBATIM_GEN_MAX_ATTEMPTS", 3),
		GenRetryDelayMS: envInt("VERBATIM_GEN_RETRY_DELAY_MS", 500),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
