package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// HavenRP game-server API (owns council campaigns, the Discord directory and FiveM data)
	HavenAPIURL string
	HavenAPIKey string

	// Tebex Headless storefront
	TebexBaseURL     string
	TebexPublicToken string

	// Identity provider
	SupabaseJWTSecret string

	// Discord role id that gates council admin operations
	CouncilAdminRoleID string

	RedisURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8081")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Environment:        getEnv("ENVIRONMENT", "production"),
		HavenAPIURL:        getEnv("HAVEN_API_URL", "https://api.haven-rp.com/api"),
		HavenAPIKey:        getEnv("HAVEN_API_KEY", ""),
		TebexBaseURL:       getEnv("TEBEX_BASE_URL", "https://plugin.tebex.io"),
		TebexPublicToken:   getEnv("TEBEX_PUBLIC_TOKEN", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
		CouncilAdminRoleID: getEnv("COUNCIL_ADMIN_ROLE_ID", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
