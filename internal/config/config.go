package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort    string
	DatabaseURL   string
	RedisURL      string
	SyncSecret    string
	SyncEndpoint  string
	MigrationsDir string
	ModelsFile    string

	DispatchTimeout   time.Duration
	DispatchWorkers   int
	DispatchQueueSize int

	LogLevel  string
	LogFormat string
}

func LoadConfig() (*Config, error) {
	timeoutStr := getEnv("DISPATCH_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, errors.New("invalid DISPATCH_TIMEOUT format")
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SyncSecret:        os.Getenv("SYNC_SECRET"),
		SyncEndpoint:      os.Getenv("SYNC_ENDPOINT"),
		MigrationsDir:     os.Getenv("MIGRATIONS_DIR"),
		ModelsFile:        os.Getenv("MODELS_FILE"),
		DispatchTimeout:   timeout,
		DispatchWorkers:   getEnvInt("DISPATCH_WORKERS", 4),
		DispatchQueueSize: getEnvInt("DISPATCH_QUEUE_SIZE", 256),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	// Validate required fields. SYNC_ENDPOINT is dispatcher-only and may be
	// empty on a receiver deployment. A missing SYNC_SECRET is tolerated by
	// the dispatcher at dispatch time, but the receiver refuses to start
	// without one so it never runs unauthenticated.
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.SyncSecret == "" {
		return nil, errors.New("SYNC_SECRET is required")
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper: get integer env with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
