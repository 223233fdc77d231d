package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the task board service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// Persistence: DatabaseURL selects postgres, otherwise SQLitePath is
	// the embedded local database. Both empty means in-memory.
	DatabaseURL string
	SQLitePath  string

	AssistMode       string
	AssistAPIURL     string
	AssistAPIKey     string
	AssistModel      string
	AssistMaxRetries int
	AssistCacheTTL   time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "taskboard"),
		AllowAnyOrigin:   false,
		DatabaseURL:      trimmedEnv("DATABASE_URL"),
		SQLitePath:       envOrDefault("TASKBOARD_DB_PATH", "data/taskboard.db"),
		AssistMode:       envOrDefault("ASSIST_MODE", "auto"),
		AssistAPIURL:     trimmedEnv("ASSIST_API_URL"),
		AssistAPIKey:     trimmedEnv("ASSIST_API_KEY"),
		AssistModel:      trimmedEnv("ASSIST_MODEL"),
		AssistMaxRetries: 2,
		AssistCacheTTL:   5 * time.Minute,
		ShutdownTimeout:  15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AssistCacheTTL, err = durationFromEnv("ASSIST_CACHE_TTL", cfg.AssistCacheTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.AssistMaxRetries, err = intFromEnv("ASSIST_MAX_RETRIES", cfg.AssistMaxRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.AssistMaxRetries < 0 {
		return Config{}, fmt.Errorf("ASSIST_MAX_RETRIES must be >= 0")
	}
	if cfg.AssistCacheTTL <= 0 {
		return Config{}, fmt.Errorf("ASSIST_CACHE_TTL must be positive")
	}
	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
