package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQL    = "sql"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	Timezone  string

	// Storage
	Storage          string
	DatabaseURL      string
	DatabaseDriver   string
	SQLitePath       string
	DatabaseMaxConns int

	// Stats cache
	RedisURL      string
	StatsCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Circuit breaker around storage
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration

	// Outbox
	OutboxBatchSize  int
	OutboxMaxRetries int
	OutboxRetention  time.Duration
}

// Load loads configuration from environment variables, after reading an
// optional .env file.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Timezone:  getEnv("CADENCE_TIMEZONE", "Local"),

		Storage:          strings.ToLower(getEnv("CADENCE_STORAGE", StorageSQL)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", ""),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),

		OutboxBatchSize:  getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries: getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetention:  getDurationEnv("OUTBOX_RETENTION", 7*24*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot silently default.
func (c *Config) Validate() error {
	if c.Storage != StorageSQL && c.Storage != StorageMemory {
		return fmt.Errorf("CADENCE_STORAGE must be %q or %q, got %q", StorageSQL, StorageMemory, c.Storage)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CADENCE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// UsesMemoryStorage reports whether state lives only in process memory.
func (c *Config) UsesMemoryStorage() bool {
	return c.Storage == StorageMemory
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
