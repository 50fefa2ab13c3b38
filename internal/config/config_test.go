package config

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "8089" {
		t.Errorf("Expected default port 8089, got %s", cfg.Port)
	}
	if cfg.DevToolsURL != "http://127.0.0.1:9222" {
		t.Errorf("Expected default devtools URL, got %s", cfg.DevToolsURL)
	}
	if cfg.NavigateTimeout != 10*time.Second {
		t.Errorf("Expected default navigate timeout 10s, got %v", cfg.NavigateTimeout)
	}
	if cfg.HistorySize != 50 {
		t.Errorf("Expected default history size 50, got %d", cfg.HistorySize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEVTOOLS_URL", "http://127.0.0.1:9333")
	t.Setenv("NAVIGATE_TIMEOUT_SECONDS", "3")
	t.Setenv("HISTORY_SIZE", "200")
	t.Setenv("DEBOUNCE_TTL_MS", "500")
	t.Setenv("RATE_LIMIT_API", "25")
	t.Setenv("RATE_LIMIT_TRIGGER", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadFromEnv()

	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.DevToolsURL != "http://127.0.0.1:9333" {
		t.Errorf("Expected overridden devtools URL, got %s", cfg.DevToolsURL)
	}
	if cfg.NavigateTimeout != 3*time.Second {
		t.Errorf("Expected navigate timeout 3s, got %v", cfg.NavigateTimeout)
	}
	if cfg.HistorySize != 200 {
		t.Errorf("Expected history size 200, got %d", cfg.HistorySize)
	}
	if cfg.DebounceTTL != 500*time.Millisecond {
		t.Errorf("Expected debounce 500ms, got %v", cfg.DebounceTTL)
	}
	if cfg.RateLimitAPI != rate.Limit(25) {
		t.Errorf("Expected API rate limit 25, got %v", cfg.RateLimitAPI)
	}
	if cfg.RateLimitTrigger != rate.Limit(2) {
		t.Errorf("Expected trigger rate limit 2, got %v", cfg.RateLimitTrigger)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("NAVIGATE_TIMEOUT_SECONDS", "-3")
	t.Setenv("HISTORY_SIZE", "zero")
	t.Setenv("DEBOUNCE_TTL_MS", "")
	t.Setenv("RATE_LIMIT_API", "0")
	t.Setenv("RATE_LIMIT_TRIGGER", "lots")

	cfg := LoadFromEnv()
	defaults := DefaultConfig()

	if cfg.NavigateTimeout != defaults.NavigateTimeout {
		t.Errorf("Expected default navigate timeout, got %v", cfg.NavigateTimeout)
	}
	if cfg.HistorySize != defaults.HistorySize {
		t.Errorf("Expected default history size, got %d", cfg.HistorySize)
	}
	if cfg.DebounceTTL != defaults.DebounceTTL {
		t.Errorf("Expected default debounce, got %v", cfg.DebounceTTL)
	}
	if cfg.RateLimitAPI != defaults.RateLimitAPI {
		t.Errorf("Expected default API rate limit, got %v", cfg.RateLimitAPI)
	}
	if cfg.RateLimitTrigger != defaults.RateLimitTrigger {
		t.Errorf("Expected default trigger rate limit, got %v", cfg.RateLimitTrigger)
	}
}
