package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Storage
	StorageDriver string // sqlite, postgres or redis
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sync
	PollInterval time.Duration

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		DatabaseURL:   getEnv("DATABASE_URL", "savora.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		PollInterval:  time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		JWTSecret:     getEnv("JWT_SECRET", "savora-dev-secret"),
		JWTTTL:        time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.StorageDriver {
	case "sqlite", "postgres", "redis":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
