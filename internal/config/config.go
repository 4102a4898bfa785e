package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Email    EmailConfig
}

// DatabaseConfig contains MongoDB settings.
type DatabaseConfig struct {
	URI  string
	Name string
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
	Prod           bool // controls Secure/SameSite cookie flags
}

// AuthConfig contains session settings.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// EmailConfig contains the optional Resend integration. When APIKey is
// empty the server falls back to logging notifications instead.
type EmailConfig struct {
	APIKey    string
	FromEmail string
	// NotifyEmail is the team inbox feedback activity is published to.
	NotifyEmail string
}

// Load reads configuration from environment variables. MONGODB_URI and
// JWT_SECRET are required; everything else has a development default.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URI:  os.Getenv("MONGODB_URI"),
			Name: getEnv("DB_NAME", "teampulse"),
		},
		HTTP: HTTPConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("ALLOWED_ORIGINS", "*")},
			Prod:           getEnv("ENV", "dev") == "prod",
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		},
		Email: EmailConfig{
			APIKey:      os.Getenv("RESEND_API_KEY"),
			FromEmail:   os.Getenv("FROM_EMAIL"),
			NotifyEmail: os.Getenv("NOTIFY_EMAIL"),
		},
	}

	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
