package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"courtsplit/internal/amqp"
	"courtsplit/internal/cli"
	gsheet "courtsplit/internal/sheets/google"
	"courtsplit/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting dues-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Google Sheets client for the dues export (optional)
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("Google Sheets disabled - dues-worker has nothing to export without GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}
	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// AMQP client for consuming dues sync messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(sqliteRepo, sheetsClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// On startup, export the current month so a restarted worker converges
	// even when the triggering messages were lost.
	logger.Info("Performing startup sync...")
	if err := syncWorker.ResyncCurrentMonth(ctx); err != nil {
		logger.Error("Startup sync failed", "error", err)
		// Don't exit - the consumer and the periodic resync can still catch up
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeDuesSync(gctx, func(msg *amqp.DuesSyncMessage) error {
			return syncWorker.HandleDuesSync(gctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := syncWorker.ResyncCurrentMonth(gctx); err != nil {
					logger.Error("Periodic resync failed", "error", err)
				}
			}
		}
	})

	logger.Info("Dues worker running",
		"queue", cfg.AMQPQueue,
		"sync_interval", cfg.SyncInterval)

	if err := g.Wait(); err != nil {
		logger.Error("Dues worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Dues worker stopped gracefully")
}
