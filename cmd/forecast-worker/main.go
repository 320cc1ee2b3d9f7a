package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"housebudget/internal/amqp"
	"housebudget/internal/config"
	"housebudget/internal/core"
)

// forecast-worker periodically requests a forecast export for the current
// month. budget-worker consumes the messages and writes the spreadsheet.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting forecast-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publish := func(ctx context.Context) {
		month := core.NewMonth(time.Now())
		if err := amqpClient.PublishForecastExport(ctx, month.Year, month.Month); err != nil {
			logger.Error("Failed to publish forecast export", "error", err, "year", month.Year, "month", month.Month)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()

		// Export once on startup, then on the interval
		publish(gctx)

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				publish(gctx)
			}
		}
	})

	logger.Info("Forecast worker started", "interval", cfg.ExportInterval)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Forecast worker stopped gracefully")
}
