package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"contactcleaner/internal/config"
	"contactcleaner/internal/logging"
	"contactcleaner/internal/session"
	"contactcleaner/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_dir", cfg.Store.Dir,
		"store_ttl", cfg.Store.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	store, err := session.NewStore(cfg.Store.Dir)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}

	// Reap leftovers from a previous run before serving.
	if n := store.CleanupOld(cfg.Store.TTL); n > 0 {
		slog.Info("removed stale session files", "count", n)
	}

	server := web.NewServer(store, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go store.StartCleanup(jobCtx, cfg.Store.CleanupInterval, cfg.Store.TTL)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
