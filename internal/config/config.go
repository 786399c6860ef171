package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, sourced from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	// WhatsApp Business (Meta Graph API) credentials.
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	GraphAPIBaseURL       string

	GeminiAPIKey string

	// Optional GCS bucket for archiving received screenshots.
	// Archiving is disabled when empty.
	MediaBucket string
}

const defaultGraphAPIBaseURL = "https://graph.facebook.com/v18.0"

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		WhatsAppAccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppVerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		GraphAPIBaseURL:       getEnv("GRAPH_API_BASE_URL", defaultGraphAPIBaseURL),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		MediaBucket:           os.Getenv("GCS_BUCKET"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.WhatsAppVerifyToken == "" {
		return Config{}, fmt.Errorf("config: WHATSAPP_VERIFY_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
