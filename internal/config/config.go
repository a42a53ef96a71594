// Package config loads the webhook listener's configuration from
// environment variables with sensible defaults.
//
// Environment Variables:
//
//   - PORT: Listener port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - WEBHOOK_SECRET: Shared signing secret (required)
//   - SIGNATURE_HEADER: Header carrying the signature (default: Loculabs-Signature)
//   - SIGNATURE_MAX_AGE: Maximum delivery age, e.g. "5m" ("0" disables the check; default: 5m)
//   - REDIS_ADDRESS: Redis address for the replay cache (empty disables deduplication)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number (default: 0)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the webhook listener.
type Config struct {
	Port            string
	LogLevel        string
	WebhookSecret   string
	SignatureHeader string
	SignatureMaxAge time.Duration

	// Redis replay cache; deduplication is off when RedisAddress is empty.
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

// Load creates a Config from environment variables. It does not validate;
// call Validate() on the result before use.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
		SignatureHeader: getEnv("SIGNATURE_HEADER", "Loculabs-Signature"),
		SignatureMaxAge: getDurationEnv("SIGNATURE_MAX_AGE", 5*time.Minute),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
	}
}

// Validate ensures required values are present and well-formed.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be a number, got %q", c.Port)
	}
	if c.RedisDB < 0 || c.RedisDB > 15 {
		return fmt.Errorf("REDIS_DB must be between 0 and 15, got %d", c.RedisDB)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if value == "0" {
			return 0
		}
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
