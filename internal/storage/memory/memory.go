// Package memory is an in-process Store used by tests and by the
// fixed-roster build, where the roster is seeded from a file and locked.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	players  []core.Player
	sessions map[string]core.Session
	settings map[core.MonthKey]core.MonthlySettings

	// rosterLocked rejects AddPlayer/RemovePlayer; the roster came from a
	// seed file and is owned by deployment, not the UI.
	rosterLocked bool
}

func New() *Store {
	return &Store{
		sessions: make(map[string]core.Session),
		settings: make(map[core.MonthKey]core.MonthlySettings),
	}
}

// NewFromRosterFile builds a store with a locked roster read from path,
// one player name per line. Blank lines and #-comments are skipped. A
// missing or empty file yields an empty, still-locked roster.
func NewFromRosterFile(path string) *Store {
	s := New()
	s.rosterLocked = true
	for _, name := range readLines(path) {
		s.players = append(s.players, core.Player{ID: uuid.NewString(), Name: name})
	}
	return s
}

func (s *Store) ListPlayers(_ context.Context) ([]core.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Player(nil), s.players...), nil
}

func (s *Store) AddPlayer(_ context.Context, p core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rosterLocked {
		return storage.ErrReadOnlyRoster
	}
	s.players = append(s.players, p)
	return nil
}

func (s *Store) RemovePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rosterLocked {
		return storage.ErrReadOnlyRoster
	}
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete player %s: %w", id, storage.ErrNotFound)
}

func (s *Store) StripPlayerFromSessions(_ context.Context, id string) ([]core.MonthKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[core.MonthKey]bool)
	for key, sess := range s.sessions {
		if !sess.HasPlayer(id) {
			continue
		}
		kept := make([]string, 0, len(sess.PlayerIDs)-1)
		for _, pid := range sess.PlayerIDs {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		sess.PlayerIDs = kept
		s.sessions[key] = sess
		touched[core.MonthKeyOf(sess.Date)] = true
	}

	months := make([]core.MonthKey, 0, len(touched))
	for k := range touched {
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months, nil
}

func (s *Store) ListSessionsByMonth(_ context.Context, year int, month time.Month) ([]core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Session
	for _, sess := range s.sessions {
		if sess.Date.Year() == year && sess.Date.Month() == month {
			out = append(out, cloneSession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) GetSession(_ context.Context, id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	c := cloneSession(sess)
	return &c, nil
}

func (s *Store) SaveSession(ctx context.Context, sess core.Session) error {
	return s.SaveSessions(ctx, []core.Session{sess})
}

func (s *Store) SaveSessions(_ context.Context, sessions []core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		s.sessions[sess.ID] = cloneSession(sess)
	}
	return nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("delete session %s: %w", id, storage.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) GetSettings(_ context.Context, key core.MonthKey) (*core.MonthlySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.settings[key]
	if !ok {
		return nil, nil
	}
	return &ms, nil
}

func (s *Store) PutSettings(_ context.Context, ms core.MonthlySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[ms.MonthKey] = ms
	return nil
}

func (s *Store) Close() error { return nil }

func cloneSession(sess core.Session) core.Session {
	sess.PlayerIDs = append([]string(nil), sess.PlayerIDs...)
	return sess
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
