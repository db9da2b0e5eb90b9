// Package memory is an in-process DuesWriter used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	"courtsplit/internal/core"
	ports "courtsplit/internal/sheets"
)

var _ ports.DuesWriter = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	tables map[core.MonthKey][]core.PlayerDue
	writes int
}

func New() *Store {
	return &Store{tables: make(map[core.MonthKey][]core.PlayerDue)}
}

// WriteMonthlyDues replaces the stored table for the month, matching the
// full-rewrite semantics of the real exporter.
func (s *Store) WriteMonthlyDues(_ context.Context, key core.MonthKey, dues []core.PlayerDue) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[key] = append([]core.PlayerDue(nil), dues...)
	s.writes++
	return nil
}

// Table returns the last written dues table for the month.
func (s *Store) Table(key core.MonthKey) []core.PlayerDue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PlayerDue(nil), s.tables[key]...)
}

// Writes reports how many exports were performed.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
