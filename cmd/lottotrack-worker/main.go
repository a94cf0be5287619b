package main

import (
	"context"
	"errors"
	"os"
	"time"

	"lottotrack/internal/amqp"
	"lottotrack/internal/backend"
	appcli "lottotrack/internal/cli"
	applog "lottotrack/internal/log"
	"lottotrack/internal/settings"
	"lottotrack/internal/worker"
)

func main() {
	appcli.LoadEnvFile()

	cfg, err := appcli.LoadAndValidateConfig()
	if err != nil {
		appcli.SetupLogger(applog.ComponentWorker, nil, nil).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := appcli.SetupLogger(applog.ComponentWorker, settings.NewStore(cfg.SettingsPath), nil)
	logger.Info("Starting lottotrack-worker")

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// The worker only reads tickets; it must not publish events of its own.
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	bcfg.AMQPURL = ""

	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		_ = res.Close()
		os.Exit(1)
	}

	summaries := worker.NewSummaryWorker(res.Repository, res.Stats, cfg.SummaryInterval)

	parent, fail := context.WithCancelCause(context.Background())
	defer fail(nil)

	ctx, done := appcli.GracefulShutdown(parent, logger, 30*time.Second, func(ctx context.Context) {
		logger.Info("Shutting down worker...")
		if err := summaries.Stop(ctx); err != nil {
			logger.Error("Summary worker stop failed", applog.FieldError, err)
		}
		if err := consumer.Close(); err != nil {
			logger.Error("Failed to close AMQP client", applog.FieldError, err)
		}
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", applog.FieldError, err)
		}
	})

	if err := summaries.Start(ctx); err != nil {
		logger.Error("Failed to start summary worker", applog.FieldError, err)
		os.Exit(1)
	}

	go func() {
		err := consumer.ConsumeTicketEvents(ctx, summaries.HandleTicketEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			fail(err)
		}
	}()

	appcli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
