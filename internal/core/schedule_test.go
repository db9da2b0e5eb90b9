package core

import (
	"testing"
	"time"
)

// January 2026 has exactly four Mondays (5, 12, 19, 26) and four Wednesdays
// (7, 14, 21, 28), matching the canonical pricing example.
func TestComputeScheduleFourMonFourWed(t *testing.T) {
	settings := MonthlySettings{
		MonthKey:                "2026-01",
		MonthlyCourtFee:         Money{VND: 2_000_000},
		MonthlyShuttlecockPrice: Money{VND: 1_000_000},
		SessionWaterPrice:       Money{VND: 10_000},
	}

	drafts := ComputeSchedule(2026, time.January, nil, settings)

	if len(drafts) != 8 {
		t.Fatalf("expected 8 drafts, got %d", len(drafts))
	}

	wantDays := []int{5, 7, 12, 14, 19, 21, 26, 28}
	for i, d := range drafts {
		if d.Date.Day() != wantDays[i] {
			t.Errorf("draft %d on day %d, want %d", i, d.Date.Day(), wantDays[i])
		}
		if d.CourtPrice.VND != 250_000 {
			t.Errorf("draft %d court price %d, want 250000", i, d.CourtPrice.VND)
		}
		wantShuttle := int64(105_000) // Monday
		if d.Date.Weekday() == time.Wednesday {
			wantShuttle = 146_000
		}
		if d.ShuttlecockPrice.VND != wantShuttle {
			t.Errorf("draft %d (%s) shuttlecock price %d, want %d",
				i, d.Date.Weekday(), d.ShuttlecockPrice.VND, wantShuttle)
		}
		if d.WaterPrice.VND != 10_000 {
			t.Errorf("draft %d water price %d, want 10000", i, d.WaterPrice.VND)
		}
		if d.DrinkPrice.VND != 0 || d.IsHoliday {
			t.Errorf("draft %d should have zero drink price and no holiday flag", i)
		}
	}
}

func TestComputeScheduleExcludesHolidays(t *testing.T) {
	settings := MonthlySettings{
		MonthKey:                "2026-01",
		MonthlyCourtFee:         Money{VND: 2_000_000},
		MonthlyShuttlecockPrice: Money{VND: 1_000_000},
	}
	existing := []Session{
		{ID: "s1", Date: NewDate(2026, time.January, 5), IsHoliday: true},
	}

	drafts := ComputeSchedule(2026, time.January, existing, settings)

	if len(drafts) != 7 {
		t.Fatalf("expected 7 drafts after holiday exclusion, got %d", len(drafts))
	}
	for _, d := range drafts {
		if d.Date.Day() == 5 {
			t.Fatalf("holiday date must not be scheduled")
		}
	}

	// 3 Mondays + 4 Wednesdays: court = ceil(2000000/7) -> 286000,
	// weight = 3*1.0 + 4*1.4 = 8.6, base = 116279.07,
	// Monday = 117000, Wednesday = 163000.
	if got := drafts[0].CourtPrice.VND; got != 286_000 {
		t.Errorf("court price %d, want 286000", got)
	}
	for _, d := range drafts {
		want := int64(117_000)
		if d.Date.Weekday() == time.Wednesday {
			want = 163_000
		}
		if d.ShuttlecockPrice.VND != want {
			t.Errorf("day %d (%s): shuttlecock %d, want %d", d.Date.Day(), d.Date.Weekday(), d.ShuttlecockPrice.VND, want)
		}
	}
}

func TestComputeScheduleAllHolidays(t *testing.T) {
	settings := MonthlySettings{
		MonthKey:                "2026-02",
		MonthlyCourtFee:         Money{VND: 2_000_000},
		MonthlyShuttlecockPrice: Money{VND: 1_000_000},
	}
	// February 2026: Mondays 2, 9, 16, 23; Wednesdays 4, 11, 18, 25.
	var existing []Session
	for _, day := range []int{2, 4, 9, 11, 16, 18, 23, 25} {
		existing = append(existing, Session{
			ID:        "h" + DayKey(NewDate(2026, time.February, day)),
			Date:      NewDate(2026, time.February, day),
			IsHoliday: true,
		})
	}

	drafts := ComputeSchedule(2026, time.February, existing, settings)
	if len(drafts) != 0 {
		t.Fatalf("expected empty schedule when every qualifying day is a holiday, got %d drafts", len(drafts))
	}
}

func TestComputeAllocationZeroSessions(t *testing.T) {
	alloc := ComputeAllocation(0, 0, Money{VND: 2_000_000}, Money{VND: 1_000_000})
	if alloc.CourtPerSession.VND != 0 || alloc.MondayShuttle.VND != 0 || alloc.WednesdayShuttle.VND != 0 {
		t.Fatalf("expected zero prices with no qualifying days, got %+v", alloc)
	}
}

func TestComputeAllocationWorkedExample(t *testing.T) {
	alloc := ComputeAllocation(4, 4, Money{VND: 2_000_000}, Money{VND: 1_000_000})
	if got := alloc.TotalSessions(); got != 8 {
		t.Fatalf("total sessions = %d, want 8", got)
	}
	if alloc.TotalWeight != 9.6 {
		t.Errorf("total weight = %v, want 9.6", alloc.TotalWeight)
	}
	if alloc.CourtPerSession.VND != 250_000 {
		t.Errorf("court per session = %d, want 250000", alloc.CourtPerSession.VND)
	}
	if alloc.MondayShuttle.VND != 105_000 {
		t.Errorf("monday shuttlecock = %d, want 105000", alloc.MondayShuttle.VND)
	}
	if alloc.WednesdayShuttle.VND != 146_000 {
		t.Errorf("wednesday shuttlecock = %d, want 146000", alloc.WednesdayShuttle.VND)
	}
}

func TestWeekdayWeight(t *testing.T) {
	if w := WeekdayWeight(time.Monday); w != 1.0 {
		t.Errorf("Monday weight = %v, want 1.0", w)
	}
	if w := WeekdayWeight(time.Wednesday); w != 1.4 {
		t.Errorf("Wednesday weight = %v, want 1.4", w)
	}
	for _, wd := range []time.Weekday{time.Sunday, time.Tuesday, time.Thursday, time.Friday, time.Saturday} {
		if w := WeekdayWeight(wd); w != 0 {
			t.Errorf("%s weight = %v, want 0", wd, w)
		}
	}
}
