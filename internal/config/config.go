package config

import (
	"os"
	"strings"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	Host          string
	Environment   string // ENV: production, development, etc.
	DatabasePath  string // single local sqlite file
	SessionCookie string // name of the session cookie

	// Bootstrap user created on first run when the store is empty.
	SeedUsername string
	SeedEmail    string
	SeedPassword string
}

// Load reads configuration from the environment with development defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8000"),
		Host:          getEnv("HOST", "0.0.0.0"),
		Environment:   strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		DatabasePath:  getEnv("DATABASE_PATH", "learning_journal.db"),
		SessionCookie: getEnv("SESSION_COOKIE", "learnlog_session"),
		SeedUsername:  getEnv("SEED_USERNAME", ""),
		SeedEmail:     getEnv("SEED_EMAIL", ""),
		SeedPassword:  getEnv("SEED_PASSWORD", ""),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
