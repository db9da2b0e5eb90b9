package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"courtsplit/internal/amqp"
	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

// RosterService maintains the player roster and keeps sessions and dues
// exports consistent when a player leaves.
type RosterService struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewRosterService(store storage.Store, amqpClient *amqp.Client) *RosterService {
	return &RosterService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// AddPlayer validates the name, rejects case-insensitive duplicates and
// appends the player to the roster.
func (s *RosterService) AddPlayer(ctx context.Context, name string) (core.Player, error) {
	p := core.Player{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	if err := p.Validate(); err != nil {
		return core.Player{}, err
	}

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return core.Player{}, fmt.Errorf("load roster: %w", err)
	}
	for _, existing := range players {
		if strings.EqualFold(existing.Name, p.Name) {
			return core.Player{}, core.ErrDuplicatePlayer
		}
	}

	if err := s.store.AddPlayer(ctx, p); err != nil {
		return core.Player{}, fmt.Errorf("add player: %w", err)
	}

	slog.InfoContext(ctx, "Added player to roster", "player", p.Name)
	return p, nil
}

// DeletePlayer removes a player and cascades through the sessions: every
// check-in is dropped first so no session references a dead id, then the
// roster entry goes. Each month whose dues shifted gets a sync message.
func (s *RosterService) DeletePlayer(ctx context.Context, id string) error {
	months, err := s.store.StripPlayerFromSessions(ctx, id)
	if err != nil {
		return fmt.Errorf("strip check-ins: %w", err)
	}

	if err := s.store.RemovePlayer(ctx, id); err != nil {
		return fmt.Errorf("remove player: %w", err)
	}

	slog.InfoContext(ctx, "Deleted player",
		"player_id", id,
		"affected_months", len(months))

	for _, key := range months {
		s.publishDuesSync(ctx, key)
	}
	return nil
}

func (s *RosterService) publishDuesSync(ctx context.Context, key core.MonthKey) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishDuesSync(ctx, key); err != nil {
		// The local change already landed; the periodic resync covers a
		// lost message.
		slog.ErrorContext(ctx, "Failed to publish dues sync message",
			"month", string(key), "error", err)
	}
}
