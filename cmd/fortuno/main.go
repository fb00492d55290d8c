package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fortuno/internal/advice"
	"fortuno/internal/amqp"
	"fortuno/internal/backend"
	"fortuno/internal/cli"
	apphttp "fortuno/internal/http"
	"fortuno/internal/services"
	"fortuno/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Ledger backend (memory or sqlite).
	store, err := backend.Create(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Optional AMQP event stream.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP, transaction events disabled", "error", err)
		} else {
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	// Outbound Telegram notifier. A missing token is a configuration
	// error but not fatal: the webhook still accepts updates, replies
	// just fail until a token is configured.
	notifier := telegram.NewDisabled()
	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_TOKEN is not set - outbound replies will fail")
	} else {
		n, err := telegram.New(cfg.TelegramToken)
		if err != nil {
			logger.Error("Failed to initialize Telegram bot - outbound replies will fail", "error", err)
		} else {
			notifier = n
		}
	}

	if cfg.OpenAIAPIKey == "" {
		logger.Error("OPENAI_API_KEY is not set - advice fallback will fail")
	}
	advisor := advice.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AdviceTimeout)

	executor := services.NewExecutor(store.Ledger, events)

	srv := apphttp.NewServer(":"+cfg.Port, executor, advisor, notifier)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second // covers the advice call
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if err := store.Cleanup(); err != nil {
			logger.Error("Ledger cleanup error", "error", err)
		}
	})

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fortuno server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		cli.WaitForShutdown(ctx, done)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
