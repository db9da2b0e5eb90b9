package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtsplit/internal/core"
	storemem "courtsplit/internal/storage/memory"
)

func TestDefaultPrices(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}
	gen := NewGenerator(store)
	if err := gen.GenerateMonth(ctx, core.MonthKey("2026-01")); err != nil {
		t.Fatalf("GenerateMonth() error = %v", err)
	}

	tests := []struct {
		name        string
		date        time.Time
		wantCourt   int64
		wantShuttle int64
	}{
		{
			name:        "monday prefill",
			date:        core.NewDate(2026, time.January, 19),
			wantCourt:   250000,
			wantShuttle: 105000,
		},
		{
			name:        "wednesday prefill",
			date:        core.NewDate(2026, time.January, 21),
			wantCourt:   250000,
			wantShuttle: 146000,
		},
		{
			name: "off-schedule friday gets no court or shuttle share",
			// Manual sessions can land on any weekday, but only scheduled
			// days carry a slice of the monthly budget.
			date:        core.NewDate(2026, time.January, 9),
			wantCourt:   0,
			wantShuttle: 0,
		},
		{
			name:        "off-schedule sunday gets no court or shuttle share",
			date:        core.NewDate(2026, time.January, 11),
			wantCourt:   0,
			wantShuttle: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultPrices(ctx, store, tt.date)
			if err != nil {
				t.Fatalf("DefaultPrices() error = %v", err)
			}
			if got.CourtPrice.VND != tt.wantCourt {
				t.Errorf("CourtPrice = %d, want %d", got.CourtPrice.VND, tt.wantCourt)
			}
			if got.ShuttlecockPrice.VND != tt.wantShuttle {
				t.Errorf("ShuttlecockPrice = %d, want %d", got.ShuttlecockPrice.VND, tt.wantShuttle)
			}
			if got.WaterPrice.VND != 10000 {
				t.Errorf("WaterPrice = %d, want 10000", got.WaterPrice.VND)
			}
		})
	}
}

func TestDefaultPricesNoSettings(t *testing.T) {
	store := storemem.New()
	_, err := DefaultPrices(context.Background(), store, core.NewDate(2026, time.January, 5))
	if !errors.Is(err, core.ErrNoSettings) {
		t.Errorf("DefaultPrices() error = %v, want ErrNoSettings", err)
	}
}

func TestDefaultPricesNoSessions(t *testing.T) {
	ctx := context.Background()
	store := storemem.New()
	if err := store.PutSettings(ctx, januarySettings()); err != nil {
		t.Fatalf("PutSettings() error = %v", err)
	}

	// Settings exist but the month was never generated: nothing to divide by.
	got, err := DefaultPrices(ctx, store, core.NewDate(2026, time.January, 5))
	if err != nil {
		t.Fatalf("DefaultPrices() error = %v", err)
	}
	if got.CourtPrice.VND != 0 || got.ShuttlecockPrice.VND != 0 {
		t.Errorf("prefill with no sessions = %+v, want zero court and shuttle", got)
	}
	if got.WaterPrice.VND != 10000 {
		t.Errorf("WaterPrice = %d, want 10000 from settings", got.WaterPrice.VND)
	}
}

func TestDefaultPricesExcludesHolidaysFromDivisor(t *testing.T) {
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
	holiday := sessions[0]
	holiday.IsHoliday = true
	if err := store.SaveSession(ctx, holiday); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	got, err := DefaultPrices(ctx, store, core.NewDate(2026, time.January, 19))
	if err != nil {
		t.Fatalf("DefaultPrices() error = %v", err)
	}
	// 7 remaining playing days: 2000000/7 rounded up.
	if got.CourtPrice.VND != 286000 {
		t.Errorf("CourtPrice = %d, want 286000", got.CourtPrice.VND)
	}
}
