package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// PlaceholderAPIKey is substituted when a remote API key is not configured.
// Calls still go out and fail with an auth error at the remote, which keeps
// the failure visible to the caller instead of short-circuiting locally.
const PlaceholderAPIKey = "MISSING_API_KEY"

const (
	defaultDatabasePath       = "data/mealmate.db"
	defaultAIProvider         = "openai"
	defaultAITimeout          = 30 * time.Second
	defaultCacheRetentionDays = 7
)

// Config holds the configuration for the application.
type Config struct {
	SpoonacularAPIKey string
	OpenAIAPIKey      string
	GeminiAPIKey      string

	// AIProvider selects the chat-completion backend: "openai" or "gemini".
	AIProvider string

	DatabasePath       string
	AITimeout          time.Duration
	CacheRetentionDays int
}

// NewFromEnv creates a new Config object from environment variables.
// Missing API keys degrade to PlaceholderAPIKey rather than failing startup.
func NewFromEnv() (*Config, error) {
	spoonacularKey := os.Getenv("SPOONACULAR_API_KEY")
	if spoonacularKey == "" {
		spoonacularKey = PlaceholderAPIKey
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		openAIKey = PlaceholderAPIKey
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = PlaceholderAPIKey
	}

	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = defaultAIProvider
	}
	if provider != "openai" && provider != "gemini" {
		return nil, fmt.Errorf("AI_PROVIDER must be \"openai\" or \"gemini\", got %q", provider)
	}

	dbPath := os.Getenv("MEALMATE_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}

	timeout := defaultAITimeout
	if raw := os.Getenv("AI_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("AI_TIMEOUT_MS must be a positive integer, got %q", raw)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	retention := defaultCacheRetentionDays
	if raw := os.Getenv("CACHE_RETENTION_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("CACHE_RETENTION_DAYS must be a positive integer, got %q", raw)
		}
		retention = days
	}

	return &Config{
		SpoonacularAPIKey:  spoonacularKey,
		OpenAIAPIKey:       openAIKey,
		GeminiAPIKey:       geminiKey,
		AIProvider:         provider,
		DatabasePath:       dbPath,
		AITimeout:          timeout,
		CacheRetentionDays: retention,
	}, nil
}
