package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etherlabsio/healthcheck"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mmuslimabdulj/tabembed/internal/browser"
	"github.com/mmuslimabdulj/tabembed/internal/config"
	httpHandler "github.com/mmuslimabdulj/tabembed/internal/delivery/http"
	"github.com/mmuslimabdulj/tabembed/internal/middleware"
	"github.com/mmuslimabdulj/tabembed/internal/telemetry"
	"github.com/mmuslimabdulj/tabembed/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	// Configuring Logging
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Initialize dependencies
	client := browser.NewClient(cfg.DevToolsURL)
	modifier := usecase.NewModifier(client, client, cfg.HistorySize, cfg.DebounceTTL)
	handler := httpHandler.NewHandler(modifier, cfg.NavigateTimeout)

	triggerLimiter := middleware.NewIPRateLimiter(cfg.RateLimitTrigger, 10)
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)

	// Setup routes
	mux := http.NewServeMux()

	// Trigger route with rate limiting
	mux.HandleFunc("/trigger", middleware.RateLimitFunc(triggerLimiter, handler.HandleTrigger))

	// API routes with rate limiting
	mux.HandleFunc("/api/transform", middleware.RateLimitFunc(apiLimiter, handler.HandleTransform))
	mux.HandleFunc("/api/history", middleware.RateLimitFunc(apiLimiter, handler.HandleHistory))

	// Health and metrics
	mux.Handle("/health", healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker("devtools", healthcheck.CheckerFunc(client.Ping)),
	))
	mux.Handle("/metrics", telemetry.Handler())

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("tabembed running at http://localhost:%s (devtools: %s)", cfg.Port, cfg.DevToolsURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully")
}
