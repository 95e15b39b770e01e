package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"csvextract/internal/config"
	"csvextract/internal/extract"
	"csvextract/internal/fetch"
	"csvextract/internal/logging"
	"csvextract/internal/web"
)

func main() {
	// .env is optional; Overload overwrites existing env vars when present.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"fetch_timeout", cfg.Fetch.Timeout,
		"fetch_max_bytes", cfg.Fetch.MaxBytes,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
	service := extract.NewService(client)
	server := web.NewServer(service, cfg)

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

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
