// Package cli holds the start-up steps shared by cmd/lottotrack and
// cmd/lottotrack-worker.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lottotrack/internal/config"
	applog "lottotrack/internal/log"
	"lottotrack/internal/settings"
)

// SetupLogger builds the process logger and installs it as the slog default.
// Output is discarded when the user turned logging off in settings; a nil
// out keeps the default of stdout.
func SetupLogger(component string, prefs *settings.Store, out io.Writer) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	if out != nil {
		cfg.Output = out
	}
	cfg.Level = applog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if prefs != nil {
		cfg.Disabled = !prefs.LoggingEnabled()
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GracefulShutdown returns a context cancelled on SIGINT, SIGTERM or when
// parent is done, after cleanup has run, and a channel closed once shutdown
// completes.
func GracefulShutdown(parent context.Context, logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-parent.Done():
			logger.Info("Shutdown requested", "reason", context.Cause(parent))
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
