package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds service configuration loaded from the environment.
type Config struct {
	Host           string
	Port           string
	AllowedOrigins []string
	DatabaseURL    string

	// ScrapeTimeout bounds one full FetchDeals fan-out; the deadline is
	// propagated into every adapter and every render call it makes.
	ScrapeTimeout time.Duration

	// MaxDetailChecks caps how many sorted candidates an adapter opens
	// before falling back to preview data.
	MaxDetailChecks int

	// RetentionDays controls how long search history rows are kept.
	RetentionDays int

	RequireAPIKey    bool
	RateLimitPerSec  float64
	RequestSizeLimit int64
}

// Load reads configuration from the environment with sensible defaults.
func Load() *Config {
	return &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		AllowedOrigins:   splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ScrapeTimeout:    getEnvDuration("SCRAPE_TIMEOUT", 90*time.Second),
		MaxDetailChecks:  getEnvInt("MAX_DETAIL_CHECKS", 10),
		RetentionDays:    getEnvInt("SEARCH_RETENTION_DAYS", 90),
		RequireAPIKey:    getEnvBool("API_REQUIRE_KEY", false),
		RateLimitPerSec:  getEnvFloat("RATE_LIMIT_PER_SEC", 5),
		RequestSizeLimit: getEnvInt64("MAX_REQUEST_SIZE", 1<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
