package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
	storemem "courtsplit/internal/storage/memory"
)

func TestAddManual(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	svc := NewSessionService(store, nil)

	sess, err := svc.AddManual(ctx,
		core.NewDate(2026, time.January, 9), // a Friday
		core.Money{VND: 250000},
		core.Money{VND: 105000},
		core.Money{VND: 10000},
		core.Money{VND: 30000},
	)
	if err != nil {
		t.Fatalf("AddManual() error = %v", err)
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.TotalCost().VND != 395000 {
		t.Errorf("TotalCost = %d, want 395000", got.TotalCost().VND)
	}
	if got.IsHoliday {
		t.Error("manual session should not start as holiday")
	}
}

func TestAddManualRejectsNegativePrice(t *testing.T) {
	svc := NewSessionService(storemem.New(), nil)
	_, err := svc.AddManual(context.Background(),
		core.NewDate(2026, time.January, 9),
		core.Money{VND: -1}, core.Money{}, core.Money{}, core.Money{})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("AddManual() error = %v, want ErrInvalidAmount", err)
	}
}

func TestSetCheckIns(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	svc := NewSessionService(store, nil)

	if err := store.SaveSession(ctx, core.Session{ID: "s1", Date: core.NewDate(2026, time.January, 5)}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if err := svc.SetCheckIns(ctx, "s1", []string{"p1", "p2"}); err != nil {
		t.Fatalf("SetCheckIns() error = %v", err)
	}
	got, _ := store.GetSession(ctx, "s1")
	if len(got.PlayerIDs) != 2 {
		t.Errorf("check-ins = %v, want 2 entries", got.PlayerIDs)
	}

	// Clearing is a valid update.
	if err := svc.SetCheckIns(ctx, "s1", nil); err != nil {
		t.Fatalf("SetCheckIns(nil) error = %v", err)
	}
	got, _ = store.GetSession(ctx, "s1")
	if len(got.PlayerIDs) != 0 {
		t.Errorf("check-ins after clear = %v, want empty", got.PlayerIDs)
	}

	if err := svc.SetCheckIns(ctx, "missing", nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SetCheckIns(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSetHolidayRegeneratesMonth(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	svc := NewSessionService(store, nil)

	if err := svc.SaveSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	sessions, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	if len(sessions) != 8 {
		t.Fatalf("SaveSettings() generated %d sessions, want 8", len(sessions))
	}

	var target string
	for _, s := range sessions {
		if core.DayKey(s.Date) == "2026-01-05" {
			target = s.ID
		}
	}
	if err := svc.SetHoliday(ctx, target, true); err != nil {
		t.Fatalf("SetHoliday() error = %v", err)
	}

	sessions, _ = store.ListSessionsByMonth(ctx, 2026, time.January)
	for _, s := range sessions {
		if s.ID == target {
			if !s.IsHoliday {
				t.Error("holiday flag not saved")
			}
			continue
		}
		if s.CourtPrice.VND != 286000 {
			t.Errorf("%s court price = %d, want 286000 after re-split", core.DayKey(s.Date), s.CourtPrice.VND)
		}
	}

	// Unflagging restores the original split.
	if err := svc.SetHoliday(ctx, target, false); err != nil {
		t.Fatalf("SetHoliday(false) error = %v", err)
	}
	sessions, _ = store.ListSessionsByMonth(ctx, 2026, time.January)
	for _, s := range sessions {
		if s.CourtPrice.VND != 250000 {
			t.Errorf("%s court price = %d, want 250000 after unflagging", core.DayKey(s.Date), s.CourtPrice.VND)
		}
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	svc := NewSessionService(store, nil)

	if err := store.SaveSession(ctx, core.Session{ID: "s1", Date: core.NewDate(2026, time.January, 5)}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if err := svc.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetSession(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSession(deleted) error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSaveSettingsValidates(t *testing.T) {
	svc := NewSessionService(storemem.New(), nil)

	err := svc.SaveSettings(context.Background(), core.MonthlySettings{
		MonthKey:        core.MonthKey("2026-13"),
		MonthlyCourtFee: core.Money{VND: 1000},
	})
	if !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Errorf("SaveSettings() error = %v, want ErrInvalidMonthKey", err)
	}

	err = svc.SaveSettings(context.Background(), core.MonthlySettings{
		MonthKey:        core.MonthKey("2026-01"),
		MonthlyCourtFee: core.Money{VND: -5},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("SaveSettings() error = %v, want ErrInvalidAmount", err)
	}
}
