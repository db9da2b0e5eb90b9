package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtsplit/internal/cli"
	"courtsplit/internal/core"
	"courtsplit/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting schedule-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	generator := services.NewGenerator(sqliteRepo)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Schedule generator configured",
		"interval", cfg.GenerateInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.GenerateInterval)
	defer ticker.Stop()

	// Run an initial pass on startup so a restarted worker catches up
	// immediately instead of waiting a full interval.
	regenerate(ctx, generator, time.Now())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				regenerate(ctx, generator, now)
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Schedule worker stopped gracefully")
}

// regenerate refreshes the schedule of every month with settings in the
// selectable window. Months without settings are skipped quietly.
func regenerate(ctx context.Context, generator *services.Generator, now time.Time) {
	for _, key := range core.AvailableMonths(now) {
		err := generator.GenerateMonth(ctx, key)
		switch {
		case err == nil:
			slog.InfoContext(ctx, "Regenerated month schedule", "month", string(key))
		case errors.Is(err, core.ErrNoSettings):
			// nothing to generate yet
		default:
			slog.ErrorContext(ctx, "Failed to regenerate month schedule", "month", string(key), "error", err)
		}
	}
}
