package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cashbook/internal/amqp"
	"cashbook/internal/backend"
	"cashbook/internal/config"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	logger = logger.WithComponent(log.ComponentReminder)

	logger.Info("Starting reminder worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, cleanup, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, reminders will only be logged", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loans, err := ledger.LoadLoansGiven(ctx, store)
	if err != nil {
		logger.Error("Failed to load loans", log.FieldError, err)
		os.Exit(1)
	}

	checker := services.NewReminderChecker(loans, publisher)

	logger.Info("Reminder worker running", "interval", cfg.ReminderInterval.String())
	if err := checker.Run(ctx, cfg.ReminderInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reminder worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Reminder worker stopped")
}
