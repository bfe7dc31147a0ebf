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

	httpadapter "github.com/couchcryptid/skyfall-dashboard/internal/adapter/http"
	"github.com/couchcryptid/skyfall-dashboard/internal/config"
	"github.com/couchcryptid/skyfall-dashboard/internal/dashboard"
	"github.com/couchcryptid/skyfall-dashboard/internal/observability"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	svc := dashboard.New(cfg, dashboard.DefaultLoaders(), logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.DefaultTheme, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Verify the dataset files before accepting traffic. The service stays
	// up but unready when a file is missing; readiness flips once a later
	// render succeeds against the fixed file.
	if err := svc.Probe(ctx); err != nil {
		logger.Error("dataset probe failed", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
