package worker

import (
	"context"
	"testing"
	"time"

	"courtsplit/internal/amqp"
	"courtsplit/internal/core"
	sheetmem "courtsplit/internal/sheets/memory"
	storemem "courtsplit/internal/storage/memory"
)

func TestHandleDuesSync(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	writer := sheetmem.New()

	if err := store.AddPlayer(ctx, core.Player{ID: "p1", Name: "An"}); err != nil {
		t.Fatalf("AddPlayer() error = %v", err)
	}
	if err := store.AddPlayer(ctx, core.Player{ID: "p2", Name: "Binh"}); err != nil {
		t.Fatalf("AddPlayer() error = %v", err)
	}
	err := store.SaveSession(ctx, core.Session{
		ID:               "s1",
		Date:             core.NewDate(2026, time.January, 5),
		CourtPrice:       core.Money{VND: 250000},
		ShuttlecockPrice: core.Money{VND: 105000},
		WaterPrice:       core.Money{VND: 10000},
		PlayerIDs:        []string{"p1", "p2"},
	})
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	w := NewSyncWorker(store, writer)
	msg := amqp.NewDuesSyncMessage(core.MonthKey("2026-01"))
	if err := w.HandleDuesSync(ctx, msg); err != nil {
		t.Fatalf("HandleDuesSync() error = %v", err)
	}

	table := writer.Table(core.MonthKey("2026-01"))
	if len(table) != 2 {
		t.Fatalf("exported %d rows, want 2", len(table))
	}
	for _, due := range table {
		if due.TotalOwed != 182500 {
			t.Errorf("%s owes %v, want 182500", due.Player.Name, due.TotalOwed)
		}
	}
}

func TestHandleDuesSyncInvalidKey(t *testing.T) {
	w := NewSyncWorker(storemem.New(), sheetmem.New())
	msg := &amqp.DuesSyncMessage{MonthKey: "not-a-month"}
	if err := w.HandleDuesSync(context.Background(), msg); err == nil {
		t.Error("HandleDuesSync() with malformed key should fail")
	}
}

func TestExportMonthEmptyClearsTable(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	writer := sheetmem.New()
	w := NewSyncWorker(store, writer)

	if err := w.ExportMonth(ctx, core.MonthKey("2026-02")); err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}
	if writer.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1 (empty months still export)", writer.Writes())
	}
	if table := writer.Table(core.MonthKey("2026-02")); len(table) != 0 {
		t.Errorf("exported table = %v, want empty", table)
	}
}

func TestExportMonthIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	writer := sheetmem.New()

	if err := store.AddPlayer(ctx, core.Player{ID: "p1", Name: "An"}); err != nil {
		t.Fatalf("AddPlayer() error = %v", err)
	}
	err := store.SaveSession(ctx, core.Session{
		ID:         "s1",
		Date:       core.NewDate(2026, time.January, 7),
		CourtPrice: core.Money{VND: 100000},
		PlayerIDs:  []string{"p1"},
	})
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	w := NewSyncWorker(store, writer)
	for i := 0; i < 3; i++ {
		if err := w.ExportMonth(ctx, core.MonthKey("2026-01")); err != nil {
			t.Fatalf("ExportMonth() pass %d error = %v", i, err)
		}
	}

	table := writer.Table(core.MonthKey("2026-01"))
	if len(table) != 1 || table[0].TotalOwed != 100000 {
		t.Errorf("table after repeated exports = %v, want single row owing 100000", table)
	}
}
