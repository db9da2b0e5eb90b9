// Package storage defines the persistence boundary of the engine and its
// SQLite implementation. The engine itself never touches the database; it
// receives and returns plain domain values through the Store interface.
package storage

import (
	"context"
	"errors"
	"time"

	"courtsplit/internal/core"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrReadOnlyRoster is returned by roster mutations when the roster is
// code-owned (fixed-roster build) and immutable at runtime.
var ErrReadOnlyRoster = errors.New("roster is read-only")

// Store is the persisted-state collaborator: the player roster, the session
// collection and the per-month settings table. Writes are replace-on-write,
// last writer wins; there is exactly one writer.
type Store interface {
	ListPlayers(ctx context.Context) ([]core.Player, error)
	AddPlayer(ctx context.Context, p core.Player) error
	RemovePlayer(ctx context.Context, id string) error
	// StripPlayerFromSessions removes the player id from every session's
	// check-in list and reports the months whose dues changed.
	StripPlayerFromSessions(ctx context.Context, id string) ([]core.MonthKey, error)

	ListSessionsByMonth(ctx context.Context, year int, month time.Month) ([]core.Session, error)
	GetSession(ctx context.Context, id string) (*core.Session, error)
	// SaveSession inserts or fully replaces one session, check-in list
	// included.
	SaveSession(ctx context.Context, s core.Session) error
	// SaveSessions persists a batch atomically (one generation pass).
	SaveSessions(ctx context.Context, sessions []core.Session) error
	DeleteSession(ctx context.Context, id string) error

	// GetSettings returns (nil, nil) when no settings exist for the month;
	// callers must handle the absent case explicitly.
	GetSettings(ctx context.Context, key core.MonthKey) (*core.MonthlySettings, error)
	PutSettings(ctx context.Context, ms core.MonthlySettings) error

	Close() error
}
