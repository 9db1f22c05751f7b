package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Trend fetching defaults
	UseMockTrends bool
	HNMinScore    int

	// Provider endpoints (overridable for testing)
	RedditBaseURL     string
	HackerNewsBaseURL string
	TrendsAPIBaseURL  string
	TrendsAPIKey      string

	// OpenAI configuration (ranking and thread generation)
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Supabase persistence (optional; absence disables saving/telemetry)
	SupabaseURL string
	SupabaseKey string

	// Azure Blob snapshot archive (optional)
	StorageAccount   string
	StorageContainer string

	// Digest configuration (optional)
	DigestSchedule string // "daily", "weekly" or "off"
	DigestEmail    string
	DigestNiche    string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		UseMockTrends: getBoolEnv("USE_MOCK_TRENDS", true),
		HNMinScore:    getIntEnv("HN_MIN_SCORE", 0),

		RedditBaseURL:     getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
		HackerNewsBaseURL: getEnv("HACKER_NEWS_BASE_URL", "https://hacker-news.firebaseio.com/v0"),
		TrendsAPIBaseURL:  getEnv("TRENDS_API_BASE_URL", ""),
		TrendsAPIKey:      getEnv("TRENDS_API_KEY", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "trends"),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", "off"),
		DigestEmail:    getEnv("DIGEST_EMAIL", ""),
		DigestNiche:    getEnv("DIGEST_NICHE", "AI"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getIntEnv("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DigestSchedule {
	case "daily", "weekly", "off":
	default:
		return fmt.Errorf("DIGEST_SCHEDULE must be 'daily', 'weekly' or 'off'")
	}

	if c.DigestEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when DIGEST_EMAIL is set")
		}
	}

	return nil
}

// PersistenceEnabled reports whether the Supabase sink is configured.
// Missing persistence configuration is not an error, side effects are
// simply skipped.
func (c *Config) PersistenceEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// DigestEnabled reports whether the scheduled digest should run.
func (c *Config) DigestEnabled() bool {
	return c.DigestSchedule != "off" && c.DigestEmail != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
