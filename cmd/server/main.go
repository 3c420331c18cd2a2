package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookbench/bookbench/internal/config"
	"github.com/bookbench/bookbench/internal/engine"
	"github.com/bookbench/bookbench/internal/logging"
	"github.com/bookbench/bookbench/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"page_sizes", cfg.Session.PageSizes,
		"max_upload_bytes", cfg.Session.MaxUploadBytes,
		"rate_limit_enabled", cfg.Server.RateLimitEnabled,
	)

	// Create the record session with config
	session := engine.NewSession(engine.Options{
		PageSizes:        cfg.Session.PageSizes,
		DefaultPageSize:  cfg.Session.DefaultPageSize,
		MaxGenerateCount: cfg.Session.MaxGenerateCount,
		HistoryLimit:     cfg.Session.HistoryLimit,
	})

	// Create server with config
	server := web.NewServer(session, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
