package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	GeminiAPIKey string
	GeminiModel  string

	// HTTP API
	APIAddr       string
	APIAuthSecret string

	// Household context fed into pitch generation prompts.
	HouseholdContext string
	PantryStaples    string

	// Name of the grocery store seeded on first startup.
	DefaultStoreName string

	// Telegram
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first if present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/pantry.db"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	apiAddr := os.Getenv("API_ADDR")
	if apiAddr == "" {
		apiAddr = ":8080"
	}

	defaultStore := os.Getenv("DEFAULT_STORE_NAME")
	if defaultStore == "" {
		defaultStore = "Main Grocery Store"
	}

	var allowedIDs []int64
	for _, part := range strings.Split(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
		}
		allowedIDs = append(allowedIDs, id)
	}

	return &Config{
		DatabasePath:           dbPath,
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            geminiModel,
		APIAddr:                apiAddr,
		APIAuthSecret:          os.Getenv("API_AUTH_SECRET"),
		HouseholdContext:       os.Getenv("HOUSEHOLD_CONTEXT"),
		PantryStaples:          os.Getenv("PANTRY_STAPLES"),
		DefaultStoreName:       defaultStore,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}
