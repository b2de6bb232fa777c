package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	GeminiAPIKey  string
	GeminiBaseURL string
	LLMModel      string

	LLMMaxRetries   int
	LLMInitialDelay time.Duration
}

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel         = "gemini-2.0-flash"
	defaultMaxRetries    = 3
	defaultInitialDelay  = 1000 * time.Millisecond
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))
	apiKey := os.Getenv("GEMINI_API_KEY")
	if env == "production" && apiKey == "" {
		log.Printf("GEMINI_API_KEY is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		GeminiAPIKey:    apiKey,
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL),
		LLMModel:        getEnv("LLM_MODEL", defaultModel),
		LLMMaxRetries:   getEnvInt("LLM_MAX_RETRIES", defaultMaxRetries),
		LLMInitialDelay: getEnvDurationMs("LLM_INITIAL_DELAY_MS", defaultInitialDelay),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvDurationMs(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return time.Duration(parsed) * time.Millisecond
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
