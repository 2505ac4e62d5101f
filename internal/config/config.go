package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Valuation ValuationConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ValuationConfig holds settings for daily summary generation.
// Timezone controls which calendar day a record falls on; every summary run
// uses the same location so recomputations stay idempotent.
type ValuationConfig struct {
	Timezone       string
	Location       *time.Location
	RecomputeCron  string // cron spec for the nightly full recompute
	MaxConcurrent  int64  // cap on concurrently running generation tasks
	EnableSchedule bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Valuation: ValuationConfig{
			Timezone: getEnv("TIMEZONE", "Asia/Manila"),
			// 00:10 local, after the day boundary has safely passed.
			RecomputeCron:  getEnv("RECOMPUTE_CRON", "10 0 * * *"),
			MaxConcurrent:  getEnvInt64("RECOMPUTE_CONCURRENCY", 4),
			EnableSchedule: getEnv("RECOMPUTE_SCHEDULE_ENABLED", "true") == "true",
		},
	}

	loc, err := time.LoadLocation(config.Valuation.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", config.Valuation.Timezone, err)
	}
	config.Valuation.Location = loc

	if config.Valuation.MaxConcurrent < 1 {
		return nil, fmt.Errorf("RECOMPUTE_CONCURRENCY must be at least 1, got %d", config.Valuation.MaxConcurrent)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets an integer environment variable or returns a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
