package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "SESSION_IDLE_TIMEOUT", "SESSION_LIMIT", "OTEL_LOGS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.Addr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown timeout 5s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("expected idle timeout 30m, got %v", cfg.SessionIdleTimeout)
	}
	if cfg.SessionLimit != 1000 {
		t.Fatalf("expected session limit 1000, got %d", cfg.SessionLimit)
	}
	if cfg.OTelLogsEnabled {
		t.Fatal("expected OTLP logs to be disabled")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("SESSION_LIMIT", "3")
	t.Setenv("OTEL_LOGS_ENABLED", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.SessionIdleTimeout != 90*time.Second || cfg.SessionLimit != 3 || !cfg.OTelLogsEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"SHUTDOWN_TIMEOUT":  "soon",
		"SESSION_LIMIT":     "many",
		"OTEL_LOGS_ENABLED": "perhaps",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := loadConfig(); err == nil {
				t.Fatalf("expected an error for %s=%q", key, value)
			}
		})
	}
}
