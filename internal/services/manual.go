package services

import (
	"context"
	"fmt"
	"time"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

// ManualDefaults are the prefill prices offered when a session is added by
// hand, derived from the month's settings and its current schedule.
type ManualDefaults struct {
	CourtPrice       core.Money
	ShuttlecockPrice core.Money
	WaterPrice       core.Money
}

// DefaultPrices computes the prefill for a manual session on date.
//
// The divisor is the count of already stored non-holiday Monday/Wednesday
// sessions in the month, the same population the generator priced; the manual
// session joins an existing split rather than triggering a re-split. An
// off-schedule weekday carries no share of the court or shuttlecock budget,
// so only water is prefilled. A month without settings or without generated
// sessions yields zero defaults and the caller decides how loudly to warn.
func DefaultPrices(ctx context.Context, store storage.Store, date time.Time) (ManualDefaults, error) {
	key := core.MonthKeyOf(date)

	settings, err := store.GetSettings(ctx, key)
	if err != nil {
		return ManualDefaults{}, fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		return ManualDefaults{}, core.ErrNoSettings
	}

	if core.WeekdayWeight(date.Weekday()) == 0 {
		return ManualDefaults{WaterPrice: settings.SessionWaterPrice}, nil
	}

	sessions, err := store.ListSessionsByMonth(ctx, date.Year(), date.Month())
	if err != nil {
		return ManualDefaults{}, fmt.Errorf("load sessions: %w", err)
	}

	mondays, wednesdays := 0, 0
	for _, s := range sessions {
		if s.IsHoliday {
			continue
		}
		switch s.Date.Weekday() {
		case time.Monday:
			mondays++
		case time.Wednesday:
			wednesdays++
		}
	}

	alloc := core.ComputeAllocation(mondays, wednesdays, settings.MonthlyCourtFee, settings.MonthlyShuttlecockPrice)
	if alloc.TotalSessions() == 0 {
		return ManualDefaults{WaterPrice: settings.SessionWaterPrice}, nil
	}

	return ManualDefaults{
		CourtPrice:       alloc.CourtPerSession,
		ShuttlecockPrice: alloc.ShuttleFor(date.Weekday()),
		WaterPrice:       settings.SessionWaterPrice,
	}, nil
}
