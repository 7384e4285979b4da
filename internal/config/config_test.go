package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("SPOONACULAR_API_KEY", "spoon_key")
		t.Setenv("OPENAI_API_KEY", "openai_key")
		t.Setenv("AI_TIMEOUT_MS", "15000")
		t.Setenv("CACHE_RETENTION_DAYS", "3")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.SpoonacularAPIKey != "spoon_key" {
			t.Errorf("Expected SpoonacularAPIKey to be 'spoon_key', got '%s'", cfg.SpoonacularAPIKey)
		}
		if cfg.OpenAIAPIKey != "openai_key" {
			t.Errorf("Expected OpenAIAPIKey to be 'openai_key', got '%s'", cfg.OpenAIAPIKey)
		}
		if cfg.AITimeout != 15*time.Second {
			t.Errorf("Expected AITimeout of 15s, got %v", cfg.AITimeout)
		}
		if cfg.CacheRetentionDays != 3 {
			t.Errorf("Expected CacheRetentionDays of 3, got %d", cfg.CacheRetentionDays)
		}
	})

	t.Run("MissingKeysDegradeToPlaceholder", func(t *testing.T) {
		t.Setenv("SPOONACULAR_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.SpoonacularAPIKey != PlaceholderAPIKey {
			t.Errorf("Expected placeholder Spoonacular key, got '%s'", cfg.SpoonacularAPIKey)
		}
		if cfg.OpenAIAPIKey != PlaceholderAPIKey {
			t.Errorf("Expected placeholder OpenAI key, got '%s'", cfg.OpenAIAPIKey)
		}
		if cfg.GeminiAPIKey != PlaceholderAPIKey {
			t.Errorf("Expected placeholder Gemini key, got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("AI_TIMEOUT_MS", "")
		t.Setenv("CACHE_RETENTION_DAYS", "")
		t.Setenv("AI_PROVIDER", "")
		t.Setenv("MEALMATE_DB_PATH", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.AIProvider != "openai" {
			t.Errorf("Expected default provider 'openai', got '%s'", cfg.AIProvider)
		}
		if cfg.AITimeout != 30*time.Second {
			t.Errorf("Expected default AITimeout of 30s, got %v", cfg.AITimeout)
		}
		if cfg.CacheRetentionDays != 7 {
			t.Errorf("Expected default retention of 7 days, got %d", cfg.CacheRetentionDays)
		}
		if cfg.DatabasePath != "data/mealmate.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
	})

	t.Run("InvalidProvider", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "llama-at-home")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for an unknown provider, got nil")
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "openai")
		t.Setenv("AI_TIMEOUT_MS", "soon")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for a non-numeric timeout, got nil")
		}
	})
}
