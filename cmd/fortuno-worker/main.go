// fortuno-worker consumes transaction events from AMQP and emits a
// structured audit log, keeping an off-process trail of every ledger
// mutation.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"fortuno/internal/amqp"
	"fortuno/internal/cli"
	"fortuno/internal/core"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
	})

	logger.Info("Starting fortuno-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeTransactions(ctx, func(msg *amqp.TransactionMessage) error {
		slog.Info("Transaction audit",
			"transaction_id", msg.TransactionID,
			"chat_id", msg.ChatID,
			"kind", msg.Kind,
			"amount", core.Money{Cents: msg.AmountCents}.String(),
			"category", msg.Category,
			"balance", core.Money{Cents: msg.BalanceCents}.String(),
			"recorded_at", msg.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
