package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtsplit/internal/core"
	storemem "courtsplit/internal/storage/memory"
)

func januarySettings() core.MonthlySettings {
	return core.MonthlySettings{
		MonthKey:                core.MonthKey("2026-01"),
		MonthlyCourtFee:         core.Money{VND: 2000000},
		MonthlyShuttlecockPrice: core.Money{VND: 1000000},
		SessionWaterPrice:       core.Money{VND: 10000},
	}
}

func TestGenerateMonth(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}

	gen := NewGenerator(store)
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() error = %v", err)
	}

	sessions, err := store.ListSessionsByMonth(ctx, 2026, time.January)
	if err != nil {
		t.Fatalf("ListSessionsByMonth() error = %v", err)
	}
	if len(sessions) != 8 {
		t.Fatalf("generated %d sessions, want 8 (4 Mondays + 4 Wednesdays)", len(sessions))
	}

	for _, s := range sessions {
		if s.CourtPrice.VND != 250000 {
			t.Errorf("%s court price = %d, want 250000", core.DayKey(s.Date), s.CourtPrice.VND)
		}
		want := int64(105000)
		if s.Date.Weekday() == time.Wednesday {
			want = 146000
		}
		if s.ShuttlecockPrice.VND != want {
			t.Errorf("%s shuttle price = %d, want %d", core.DayKey(s.Date), s.ShuttlecockPrice.VND, want)
		}
		if s.WaterPrice.VND != 10000 {
			t.Errorf("%s water price = %d, want 10000", core.DayKey(s.Date), s.WaterPrice.VND)
		}
		if s.ID == "" {
			t.Error("generated session has empty id")
		}
	}
}

func TestGenerateMonthNoSettings(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	gen := NewGenerator(store)

	err := gen.GenerateMonth(ctx, core.MonthKey("2026-01"))
	if !errors.Is(err, core.ErrNoSettings) {
		t.Fatalf("GenerateMonth() error = %v, want ErrNoSettings", err)
	}

	sessions, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	if len(sessions) != 0 {
		t.Errorf("generated %d sessions without settings, want 0", len(sessions))
	}
}

func TestGenerateMonthIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}

	gen := NewGenerator(store)
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() first pass error = %v", err)
	}

	first, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	ids := make(map[string]bool, len(first))
	for _, s := range first {
		ids[s.ID] = true
	}

	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() second pass error = %v", err)
	}

	second, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	if len(second) != len(first) {
		t.Fatalf("second pass has %d sessions, want %d", len(second), len(first))
	}
	for _, s := range second {
		if !ids[s.ID] {
			t.Errorf("session %s on %s got a new id on regeneration", s.ID, core.DayKey(s.Date))
		}
	}
}

func TestGenerateMonthPreservesCheckIns(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}

	gen := NewGenerator(store)
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() error = %v", err)
	}

	sessions, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	target := sessions[0]
	target.PlayerIDs = []string{"p1", "p2"}
	target.DrinkPrice = core.Money{VND: 50000}
	if err := store.SaveSession(ctx, target); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	// New budget, same month: prices change, human edits survive.
	settings := januarySettings()
	settings.MonthlyCourtFee = core.Money{VND: 2400000}
	if err := store.PutSettings(ctx, settings); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() error = %v", err)
	}

	got, err := store.GetSession(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if len(got.PlayerIDs) != 2 {
		t.Errorf("check-ins after regeneration = %v, want [p1 p2]", got.PlayerIDs)
	}
	if got.DrinkPrice.VND != 50000 {
		t.Errorf("drink price after regeneration = %d, want 50000", got.DrinkPrice.VND)
	}
	if got.CourtPrice.VND != 300000 {
		t.Errorf("court price after regeneration = %d, want 300000 (2400000/8)", got.CourtPrice.VND)
	}
}

func TestGenerateMonthHolidayExcluded(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}

	gen := NewGenerator(store)
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() error = %v", err)
	}

	sessions, _ := store.ListSessionsByMonth(ctx, 2026, time.January)
	var holiday core.Session
	for _, s := range sessions {
		if core.DayKey(s.Date) == "2026-01-05" {
			holiday = s
		}
	}
	holiday.IsHoliday = true
	if err := store.SaveSession(ctx, holiday); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() after holiday error = %v", err)
	}

	sessions, _ = store.ListSessionsByMonth(ctx, 2026, time.January)
	if len(sessions) != 8 {
		t.Fatalf("got %d sessions, want 8 (holiday stays stored)", len(sessions))
	}
	for _, s := range sessions {
		if core.DayKey(s.Date) == "2026-01-05" {
			if !s.IsHoliday {
				t.Error("holiday flag lost on regeneration")
			}
			continue
		}
		// Remaining 7 playing days re-split the full budget.
		if s.CourtPrice.VND != 286000 {
			t.Errorf("%s court price = %d, want 286000 (2000000/7 rounded up)", core.DayKey(s.Date), s.CourtPrice.VND)
		}
	}
}

func TestReconcileNoDuplicateDates(t *testing.T) {
	drafts := []core.SessionDraft{
		{Date: core.NewDate(2026, time.January, 5), CourtPrice: core.Money{VND: 1000}},
		{Date: core.NewDate(2026, time.January, 7), CourtPrice: core.Money{VND: 1000}},
	}
	existing := []core.Session{
		{ID: "a", Date: core.NewDate(2026, time.January, 5)},
	}

	merged := Reconcile(drafts, existing)
	if len(merged) != 2 {
		t.Fatalf("merged %d sessions, want 2", len(merged))
	}
	days := make(map[string]int)
	for _, s := range merged {
		days[core.DayKey(s.Date)]++
	}
	for day, n := range days {
		if n != 1 {
			t.Errorf("day %s appears %d times, want 1", day, n)
		}
	}
	for _, s := range merged {
		if core.DayKey(s.Date) == "2026-01-05" && s.ID != "a" {
			t.Errorf("matched session lost its id: %s", s.ID)
		}
	}
}
