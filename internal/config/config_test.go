package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("DATABASE_PATH", "/tmp/test.db")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12345, 67890")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[0] != 12345 {
			t.Errorf("Expected allowed user IDs [12345 67890], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("GEMINI_MODEL")
		os.Unsetenv("API_ADDR")
		os.Unsetenv("DEFAULT_STORE_NAME")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/pantry.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiModel != "gemini-2.0-flash" {
			t.Errorf("Expected default GeminiModel, got '%s'", cfg.GeminiModel)
		}
		if cfg.APIAddr != ":8080" {
			t.Errorf("Expected default APIAddr, got '%s'", cfg.APIAddr)
		}
		if cfg.DefaultStoreName != "Main Grocery Store" {
			t.Errorf("Expected default store name, got '%s'", cfg.DefaultStoreName)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("BadAllowedUserID", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "not-a-number")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_ALLOWED_USER_IDS, got nil")
		}
	})
}
