package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	appcli "lottotrack/internal/cli"
	apphttp "lottotrack/internal/http"
	applog "lottotrack/internal/log"
)

const shutdownTimeout = 30 * time.Second

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:     "serve",
		Usage:    "Serve the JSON API",
		Category: "Server",
		Action:   a.serve,
	}
}

func (a *app) serve(c *cli.Context) error {
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	logger := a.logger.WithComponent(applog.ComponentHTTP)
	srv := apphttp.NewServer(":"+a.cfg.Port, b.Tickets, b.Stats, a.logger)

	ctx, done := appcli.GracefulShutdown(c.Context, logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting lottotrack server",
		"port", a.cfg.Port,
		"backend", a.cfg.DataBackend,
		"events", a.cfg.EventsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on port %s: %w", a.cfg.Port, err)
	}

	appcli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
