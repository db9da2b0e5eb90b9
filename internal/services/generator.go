// Package services orchestrates the engine over the store and the AMQP
// publisher: schedule generation, manual session entry, roster maintenance
// and session updates.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

// Generator produces and reconciles a month's Monday/Wednesday sessions.
type Generator struct {
	store storage.Store
}

func NewGenerator(store storage.Store) *Generator {
	return &Generator{store: store}
}

// GenerateMonth recomputes the month's schedule from its settings and merges
// it into the stored sessions. Without settings the month is left untouched;
// generation is only meaningful once a budget exists.
func (g *Generator) GenerateMonth(ctx context.Context, key core.MonthKey) error {
	year, month, err := key.Parse()
	if err != nil {
		return err
	}

	settings, err := g.store.GetSettings(ctx, key)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		slog.InfoContext(ctx, "Skipping generation, month has no settings", "month", string(key))
		return core.ErrNoSettings
	}

	existing, err := g.store.ListSessionsByMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	drafts := core.ComputeSchedule(year, month, existing, *settings)
	merged := Reconcile(drafts, existing)

	if err := g.store.SaveSessions(ctx, merged); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}

	slog.InfoContext(ctx, "Generated month schedule",
		"month", string(key),
		"drafts", len(drafts),
		"saved", len(merged))

	return nil
}

// Reconcile merges freshly computed drafts into the month's existing
// sessions.
//
// A draft matching an existing session by date updates only the generated
// price fields; identity, check-ins, the holiday flag and the drink price
// survive regeneration. Unmatched drafts become new sessions. Existing
// sessions without a draft (holidays, manual entries on other weekdays) are
// re-saved unchanged so one batch write captures the whole month.
func Reconcile(drafts []core.SessionDraft, existing []core.Session) []core.Session {
	byDay := make(map[string]core.Session, len(existing))
	for _, s := range existing {
		byDay[core.DayKey(s.Date)] = s
	}

	out := make([]core.Session, 0, len(existing)+len(drafts))
	seen := make(map[string]bool, len(drafts))

	for _, d := range drafts {
		day := core.DayKey(d.Date)
		seen[day] = true
		if prev, ok := byDay[day]; ok {
			prev.CourtPrice = d.CourtPrice
			prev.ShuttlecockPrice = d.ShuttlecockPrice
			prev.WaterPrice = d.WaterPrice
			out = append(out, prev)
			continue
		}
		out = append(out, core.Session{
			ID:               uuid.NewString(),
			Date:             d.Date,
			CourtPrice:       d.CourtPrice,
			ShuttlecockPrice: d.ShuttlecockPrice,
			WaterPrice:       d.WaterPrice,
			DrinkPrice:       d.DrinkPrice,
			IsHoliday:        d.IsHoliday,
		})
	}

	for _, s := range existing {
		if !seen[core.DayKey(s.Date)] {
			out = append(out, s)
		}
	}

	return out
}
