package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_BIND_ADDR", "APP_METRICS_NAMESPACE", "APP_SHUTDOWN_TIMEOUT",
		"APP_ALLOW_ANY_ORIGIN", "DATABASE_URL", "TASKBOARD_DB_PATH",
		"ASSIST_MODE", "ASSIST_API_URL", "ASSIST_API_KEY", "ASSIST_MODEL",
		"ASSIST_MAX_RETRIES", "ASSIST_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.MetricsNamespace != "taskboard" {
		t.Fatalf("MetricsNamespace = %q, want %q", cfg.MetricsNamespace, "taskboard")
	}
	if cfg.SQLitePath != "data/taskboard.db" {
		t.Fatalf("SQLitePath = %q", cfg.SQLitePath)
	}
	if cfg.AssistMode != "auto" || cfg.AssistMaxRetries != 2 || cfg.AssistCacheTTL != 5*time.Minute {
		t.Fatalf("assist defaults wrong: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout = %v, want 15s", cfg.ShutdownTimeout)
	}
	if cfg.AllowAnyOrigin {
		t.Fatalf("AllowAnyOrigin should default to false")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_BIND_ADDR", "127.0.0.1:9999")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskboard")
	t.Setenv("TASKBOARD_DB_PATH", "/tmp/board.db")
	t.Setenv("ASSIST_MODE", "mock")
	t.Setenv("ASSIST_MAX_RETRIES", "5")
	t.Setenv("ASSIST_CACHE_TTL", "90s")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != "127.0.0.1:9999" {
		t.Fatalf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.DatabaseURL != "postgres://localhost/taskboard" || cfg.SQLitePath != "/tmp/board.db" {
		t.Fatalf("persistence config wrong: %+v", cfg)
	}
	if cfg.AssistMode != "mock" || cfg.AssistMaxRetries != 5 || cfg.AssistCacheTTL != 90*time.Second {
		t.Fatalf("assist config wrong: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 30*time.Second || !cfg.AllowAnyOrigin {
		t.Fatalf("server config wrong: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"ASSIST_MAX_RETRIES", "not-a-number"},
		{"ASSIST_MAX_RETRIES", "-1"},
		{"ASSIST_CACHE_TTL", "soon"},
		{"ASSIST_CACHE_TTL", "-1m"},
		{"APP_SHUTDOWN_TIMEOUT", "100ms"},
		{"APP_ALLOW_ANY_ORIGIN", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q should fail", tc.key, tc.value)
			}
		})
	}
}
