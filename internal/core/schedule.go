package core

import (
	"time"
)

// Shuttlecock cost weights per playing day. Wednesday sessions burn more
// shuttlecocks, so they carry a larger share of the monthly budget.
const (
	MondayWeight    = 1.0
	WednesdayWeight = 1.4
)

// SessionDraft is a generated session candidate for one qualifying day.
// Drafts carry no identity; the reconciler decides whether a draft becomes
// a new session or updates an existing one.
type SessionDraft struct {
	Date             time.Time
	CourtPrice       Money
	ShuttlecockPrice Money
	WaterPrice       Money
	DrinkPrice       Money
	IsHoliday        bool
}

// PriceAllocation is the per-weekday price breakdown derived from a month's
// budget and its qualifying-day counts.
type PriceAllocation struct {
	Mondays          int
	Wednesdays       int
	TotalWeight      float64
	CourtPerSession  Money
	MondayShuttle    Money
	WednesdayShuttle Money
}

// TotalSessions is the number of qualifying days in the allocation.
func (a PriceAllocation) TotalSessions() int {
	return a.Mondays + a.Wednesdays
}

// ShuttleFor returns the shuttlecock price for a given weekday, zero for
// non-qualifying weekdays.
func (a PriceAllocation) ShuttleFor(wd time.Weekday) Money {
	switch wd {
	case time.Monday:
		return a.MondayShuttle
	case time.Wednesday:
		return a.WednesdayShuttle
	default:
		return Money{}
	}
}

// WeekdayWeight returns the shuttlecock weight for a weekday, zero when the
// weekday never qualifies.
func WeekdayWeight(wd time.Weekday) float64 {
	switch wd {
	case time.Monday:
		return MondayWeight
	case time.Wednesday:
		return WednesdayWeight
	default:
		return 0
	}
}

// ComputeAllocation derives the per-session prices for a month with the
// given qualifying-day counts.
//
// The court fee is split evenly across all qualifying days; the shuttlecock
// budget is split by weight. Every derived price is independently rounded up
// to the next 1000 VND, so the allocated total may exceed the nominal budget
// by up to totalSessions*999 VND. That slippage is accepted behavior, not
// something to correct here.
func ComputeAllocation(mondays, wednesdays int, courtFee, shuttleBudget Money) PriceAllocation {
	alloc := PriceAllocation{Mondays: mondays, Wednesdays: wednesdays}
	total := mondays + wednesdays
	if total == 0 {
		return alloc
	}

	alloc.CourtPerSession = RoundUpToThousand(float64(courtFee.VND) / float64(total))

	alloc.TotalWeight = float64(mondays)*MondayWeight + float64(wednesdays)*WednesdayWeight
	base := float64(shuttleBudget.VND) / alloc.TotalWeight
	alloc.MondayShuttle = RoundUpToThousand(base * MondayWeight)
	alloc.WednesdayShuttle = RoundUpToThousand(base * WednesdayWeight)

	return alloc
}

// ComputeSchedule enumerates the qualifying days of a month and prices one
// draft per day.
//
// A day is dropped from both the schedule and the divisor counts when an
// existing session on that date is flagged holiday; the holiday session
// itself is left for the reconciler to skip. With no qualifying days the
// result is empty and no division happens.
func ComputeSchedule(year int, month time.Month, existing []Session, settings MonthlySettings) []SessionDraft {
	holidays := make(map[string]bool)
	for _, s := range SessionsInMonth(existing, year, month) {
		if s.IsHoliday {
			holidays[DayKey(s.Date)] = true
		}
	}

	var days []time.Time
	mondays, wednesdays := 0, 0
	last := NewDate(year, month+1, 0).Day()
	for day := 1; day <= last; day++ {
		date := NewDate(year, month, day)
		if WeekdayWeight(date.Weekday()) == 0 || holidays[DayKey(date)] {
			continue
		}
		switch date.Weekday() {
		case time.Monday:
			mondays++
		case time.Wednesday:
			wednesdays++
		}
		days = append(days, date)
	}

	alloc := ComputeAllocation(mondays, wednesdays, settings.MonthlyCourtFee, settings.MonthlyShuttlecockPrice)

	drafts := make([]SessionDraft, 0, len(days))
	for _, date := range days {
		drafts = append(drafts, SessionDraft{
			Date:             date,
			CourtPrice:       alloc.CourtPerSession,
			ShuttlecockPrice: alloc.ShuttleFor(date.Weekday()),
			WaterPrice:       settings.SessionWaterPrice,
			DrinkPrice:       Money{},
			IsHoliday:        false,
		})
	}
	return drafts
}
