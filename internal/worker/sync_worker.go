// Package worker recomputes monthly dues from the store and exports them to
// the configured sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courtsplit/internal/amqp"
	"courtsplit/internal/core"
	"courtsplit/internal/sheets"
	"courtsplit/internal/storage"
)

// SyncWorker consumes dues sync requests and rewrites the month's export.
// Messages carry only a month key; the worker always reads current state, so
// redelivered or duplicate messages converge to the same sheet.
type SyncWorker struct {
	store  storage.Store
	sheets sheets.DuesWriter
}

func NewSyncWorker(store storage.Store, duesWriter sheets.DuesWriter) *SyncWorker {
	return &SyncWorker{
		store:  store,
		sheets: duesWriter,
	}
}

// HandleDuesSync processes a single dues sync message from AMQP.
func (w *SyncWorker) HandleDuesSync(ctx context.Context, msg *amqp.DuesSyncMessage) error {
	key := core.MonthKey(msg.MonthKey)

	slog.InfoContext(ctx, "Processing dues sync message", "month", msg.MonthKey)

	if err := w.ExportMonth(ctx, key); err != nil {
		return fmt.Errorf("export month %s: %w", key, err)
	}
	return nil
}

// ExportMonth recomputes the month's dues from the store and rewrites the
// export. A month with no sessions or no check-ins exports an empty table,
// which clears stale rows from earlier runs.
func (w *SyncWorker) ExportMonth(ctx context.Context, key core.MonthKey) error {
	year, month, err := key.Parse()
	if err != nil {
		return err
	}

	sessions, err := w.store.ListSessionsByMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	players, err := w.store.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	dues := core.MonthlyDues(sessions, players)

	if err := w.sheets.WriteMonthlyDues(ctx, key, dues); err != nil {
		return fmt.Errorf("write dues: %w", err)
	}

	slog.InfoContext(ctx, "Exported monthly dues",
		"month", string(key),
		"sessions", len(sessions),
		"owing_players", len(dues))

	return nil
}

// ResyncCurrentMonth is the periodic backup pass: it re-exports the month
// containing now in case a sync message was lost.
func (w *SyncWorker) ResyncCurrentMonth(ctx context.Context) error {
	key := core.MonthKeyOf(time.Now())
	if err := w.ExportMonth(ctx, key); err != nil {
		return fmt.Errorf("resync current month: %w", err)
	}
	return nil
}
