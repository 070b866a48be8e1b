package config

import (
	"log"
	"os"
	"strconv"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultDBPath    = "myapp.db"
	DefaultPort      = 5001
	DefaultAPIPrefix = "/api"
)

// Config holds the application configuration. It is built once in main and
// passed to module constructors; nothing reads the environment after startup.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string
	// Port is the HTTP listening port.
	Port int
	// CORSOrigins is a comma-separated list of allowed origins. Empty
	// allows all origins.
	CORSOrigins string
	// APIPrefix is prepended to the task routes. The default "/api"
	// yields /api/tasks; an empty prefix yields the bare /tasks variant.
	APIPrefix string
}

// FromEnv loads configuration from environment variables, falling back to
// defaults for anything unset.
func FromEnv() Config {
	return Config{
		DBPath:      getEnv("SQLITE_DB", DefaultDBPath),
		Port:        getEnvInt("PORT", DefaultPort),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),
		APIPrefix:   getEnvPrefix("API_PREFIX", DefaultAPIPrefix),
	}
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvPrefix returns a route prefix from the environment. Unlike getEnv an
// explicitly set empty value is honored, selecting the unprefixed routes.
func getEnvPrefix(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
