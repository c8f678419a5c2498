// ABOUTME: Entry point for the HomeAlign dashboard proxy service
// ABOUTME: Serves the cookie session proxy, data proxy and health endpoints

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/jacksmith315/homealign-dashboard/cache"
	"github.com/jacksmith315/homealign-dashboard/config"
	"github.com/jacksmith315/homealign-dashboard/handlers"
	"github.com/jacksmith315/homealign-dashboard/logger"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if !logger.IsJSON() {
		displayBanner("homealign")
	}

	slog.Info("Starting HomeAlign dashboard proxy", "env", cfg.Env, "version", cfg.Version)
	slog.Info("Backend configured", "auth_url", cfg.BackendAPIURL, "base_url", cfg.BackendAPIBaseURL)
	if !cfg.CookieSecure {
		slog.Warn("Auth cookies are not marked Secure")
	}
	if cfg.RateLimitEnabled {
		slog.Info("Rate limiting enabled",
			"auth_per_min", cfg.RateLimitAuth,
			"refresh_per_min", cfg.RateLimitRefresh,
			"default_per_min", cfg.RateLimitDefault,
		)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	// Health ping cache
	c := cache.New[bool](cfg.HealthCacheTTL)
	defer c.Close()

	h := handlers.NewHandler(cfg, c)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func displayBanner(name string) {
	figure.NewFigure(name, "cybermedium", true).Print()
	fmt.Println()
}
