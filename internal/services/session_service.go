package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtsplit/internal/amqp"
	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

// SessionService applies session-level edits and publishes a dues sync for
// every change that can move a month's totals. Local persistence is the
// source of truth; a failed publish never fails the request.
type SessionService struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewSessionService(store storage.Store, amqpClient *amqp.Client) *SessionService {
	return &SessionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// AddManual stores a hand-entered session for any weekday.
func (s *SessionService) AddManual(ctx context.Context, date time.Time, court, shuttle, water, drink core.Money) (core.Session, error) {
	sess := core.Session{
		ID:               uuid.NewString(),
		Date:             core.NewDate(date.Year(), date.Month(), date.Day()),
		CourtPrice:       court,
		ShuttlecockPrice: shuttle,
		WaterPrice:       water,
		DrinkPrice:       drink,
	}
	if err := sess.Validate(); err != nil {
		return core.Session{}, err
	}

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return core.Session{}, fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(ctx, "Added manual session", "date", core.DayKey(sess.Date))
	s.publishDuesSync(ctx, core.MonthKeyOf(sess.Date))
	return sess, nil
}

// SetCheckIns replaces a session's check-in list.
func (s *SessionService) SetCheckIns(ctx context.Context, sessionID string, playerIDs []string) error {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.PlayerIDs = playerIDs
	if err := s.store.SaveSession(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(ctx, "Updated check-ins",
		"session_id", sessionID,
		"players", len(playerIDs))

	s.publishDuesSync(ctx, core.MonthKeyOf(sess.Date))
	return nil
}

// SetHoliday flags or unflags a session as holiday and regenerates the
// month so prices re-split across the remaining playing days.
func (s *SessionService) SetHoliday(ctx context.Context, sessionID string, holiday bool) error {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.IsHoliday = holiday
	if err := s.store.SaveSession(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	key := core.MonthKeyOf(sess.Date)
	gen := NewGenerator(s.store)
	if err := gen.GenerateMonth(ctx, key); err != nil && err != core.ErrNoSettings {
		return fmt.Errorf("regenerate month: %w", err)
	}

	slog.InfoContext(ctx, "Updated holiday flag",
		"session_id", sessionID,
		"holiday", holiday)

	s.publishDuesSync(ctx, key)
	return nil
}

// Delete removes a session outright.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Deleted session", "session_id", sessionID)
	s.publishDuesSync(ctx, core.MonthKeyOf(sess.Date))
	return nil
}

// SaveSettings upserts a month's budget and regenerates its schedule so the
// stored prices always reflect the latest settings.
func (s *SessionService) SaveSettings(ctx context.Context, ms core.MonthlySettings) error {
	if err := ms.Validate(); err != nil {
		return err
	}

	if err := s.store.PutSettings(ctx, ms); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	gen := NewGenerator(s.store)
	if err := gen.GenerateMonth(ctx, ms.MonthKey); err != nil {
		return fmt.Errorf("regenerate month: %w", err)
	}

	slog.InfoContext(ctx, "Saved monthly settings", "month", string(ms.MonthKey))
	s.publishDuesSync(ctx, ms.MonthKey)
	return nil
}

func (s *SessionService) publishDuesSync(ctx context.Context, key core.MonthKey) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishDuesSync(ctx, key); err != nil {
		slog.ErrorContext(ctx, "Failed to publish dues sync message",
			"month", string(key), "error", err)
	}
}
