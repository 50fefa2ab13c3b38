package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port string

	// Browser (Chrome DevTools endpoint)
	DevToolsURL     string
	NavigateTimeout time.Duration

	// Trigger handling
	HistorySize int
	DebounceTTL time.Duration

	// Rate Limiting
	RateLimitAPI     rate.Limit
	RateLimitTrigger rate.Limit

	// Logging
	LogLevel string
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:             "8089",
		DevToolsURL:      "http://127.0.0.1:9222",
		NavigateTimeout:  10 * time.Second,
		HistorySize:      50,
		DebounceTTL:      2 * time.Second,
		RateLimitAPI:     10,
		RateLimitTrigger: 5,
		LogLevel:         "info", // Options: debug, info, warn, error
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	// Server
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// Browser
	if u := os.Getenv("DEVTOOLS_URL"); u != "" {
		cfg.DevToolsURL = u
	}

	if t := os.Getenv("NAVIGATE_TIMEOUT_SECONDS"); t != "" {
		if val, err := strconv.Atoi(t); err == nil && val > 0 {
			cfg.NavigateTimeout = time.Duration(val) * time.Second
		}
	}

	// Trigger handling
	if size := os.Getenv("HISTORY_SIZE"); size != "" {
		if val, err := strconv.Atoi(size); err == nil && val > 0 {
			cfg.HistorySize = val
		}
	}

	if ttl := os.Getenv("DEBOUNCE_TTL_MS"); ttl != "" {
		if val, err := strconv.Atoi(ttl); err == nil && val > 0 {
			cfg.DebounceTTL = time.Duration(val) * time.Millisecond
		}
	}

	// Rate Limiting
	if rl := os.Getenv("RATE_LIMIT_API"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitAPI = rate.Limit(val)
		}
	}

	if rl := os.Getenv("RATE_LIMIT_TRIGGER"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitTrigger = rate.Limit(val)
		}
	}

	// Logging
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}

// Global configuration instance
var AppConfig = LoadFromEnv()
