package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// MonthKey identifies a calendar month in "YYYY-MM" form.
	MonthKey string

	Player struct {
		ID   string
		Name string
	}

	// Session is one scheduled occurrence. Date carries day granularity;
	// any time-of-day component is ignored for matching and grouping.
	Session struct {
		ID               string
		Date             time.Time
		CourtPrice       Money
		ShuttlecockPrice Money
		WaterPrice       Money
		DrinkPrice       Money
		PlayerIDs        []string
		IsHoliday        bool
	}

	// MonthlySettings holds the budget inputs for one calendar month.
	// At most one record exists per MonthKey, last write wins.
	MonthlySettings struct {
		MonthKey                MonthKey
		MonthlyCourtFee         Money
		MonthlyShuttlecockPrice Money
		SessionWaterPrice       Money
	}
)

var (
	ErrEmptyName       = errors.New("empty player name")
	ErrDuplicatePlayer = errors.New("player name already in roster")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrNoSettings      = errors.New("no settings recorded for month")
)

// NewMonthKey builds a MonthKey from a year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

// MonthKeyOf returns the MonthKey of the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// Parse splits the key back into year and month.
func (k MonthKey) Parse() (int, time.Month, error) {
	var year, month int
	if _, err := fmt.Sscanf(string(k), "%4d-%2d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, string(k))
	}
	if month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, string(k))
	}
	return year, time.Month(month), nil
}

func (k MonthKey) Validate() error {
	_, _, err := k.Parse()
	return err
}

// Label renders the key for display, e.g. "January 2026".
func (k MonthKey) Label() string {
	year, month, err := k.Parse()
	if err != nil {
		return string(k)
	}
	return fmt.Sprintf("%s %d", month, year)
}

// AvailableMonths lists the selectable months: the month containing now
// plus the next three.
func AvailableMonths(now time.Time) []MonthKey {
	keys := make([]MonthKey, 0, 4)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		keys = append(keys, MonthKeyOf(first.AddDate(0, i, 0)))
	}
	return keys
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayKey renders a date at day granularity for map keys and storage.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewDate creates a day-granular date in UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TotalCost sums the four cost components of a session.
func (s Session) TotalCost() Money {
	return Money{VND: s.CourtPrice.VND + s.ShuttlecockPrice.VND + s.WaterPrice.VND + s.DrinkPrice.VND}
}

// PerPlayerShare divides the session total evenly among checked-in players.
// A session with no check-ins has a zero share, never a division fault.
func (s Session) PerPlayerShare() float64 {
	if len(s.PlayerIDs) == 0 {
		return 0
	}
	return float64(s.TotalCost().VND) / float64(len(s.PlayerIDs))
}

// HasPlayer reports whether the player is checked in.
func (s Session) HasPlayer(playerID string) bool {
	for _, id := range s.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s Session) Validate() error {
	if s.Date.IsZero() {
		return errors.New("session date cannot be zero")
	}
	for _, m := range []Money{s.CourtPrice, s.ShuttlecockPrice, s.WaterPrice, s.DrinkPrice} {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Player) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if len(p.Name) > 100 {
		return errors.New("player name too long (max 100 characters)")
	}
	return nil
}

func (ms MonthlySettings) Validate() error {
	if err := ms.MonthKey.Validate(); err != nil {
		return err
	}
	for _, m := range []Money{ms.MonthlyCourtFee, ms.MonthlyShuttlecockPrice, ms.SessionWaterPrice} {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SessionsInMonth filters sessions to one calendar month, matching on the
// date only.
func SessionsInMonth(sessions []Session, year int, month time.Month) []Session {
	var out []Session
	for _, s := range sessions {
		if s.Date.Year() == year && s.Date.Month() == month {
			out = append(out, s)
		}
	}
	return out
}
