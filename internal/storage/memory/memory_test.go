package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

func TestRosterLockedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	content := "An\nBinh\n\n# comment\nAn\nChi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write roster file: %v", err)
	}

	s := NewFromRosterFile(path)
	ctx := context.Background()

	players, err := s.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("ListPlayers() error = %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("got %d players, want 3 (blank, comment and duplicate lines skipped)", len(players))
	}
	if players[0].Name != "An" || players[1].Name != "Binh" || players[2].Name != "Chi" {
		t.Errorf("roster order = %v, want file order", players)
	}

	if err := s.AddPlayer(ctx, core.Player{ID: "x", Name: "Dung"}); !errors.Is(err, storage.ErrReadOnlyRoster) {
		t.Errorf("AddPlayer() error = %v, want ErrReadOnlyRoster", err)
	}
	if err := s.RemovePlayer(ctx, players[0].ID); !errors.Is(err, storage.ErrReadOnlyRoster) {
		t.Errorf("RemovePlayer() error = %v, want ErrReadOnlyRoster", err)
	}
}

func TestSessionIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	sess := core.Session{
		ID:        "s1",
		Date:      core.NewDate(2026, time.January, 5),
		PlayerIDs: []string{"p1"},
	}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	sess.PlayerIDs[0] = "hacked"

	got, err := s.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.PlayerIDs[0] != "p1" {
		t.Errorf("stored check-in = %q, want p1", got.PlayerIDs[0])
	}
}

func TestStripPlayerFromSessions(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.SaveSessions(ctx, []core.Session{
		{ID: "s1", Date: core.NewDate(2026, time.January, 5), PlayerIDs: []string{"p1", "p2"}},
		{ID: "s2", Date: core.NewDate(2026, time.February, 4), PlayerIDs: []string{"p1"}},
		{ID: "s3", Date: core.NewDate(2026, time.February, 11), PlayerIDs: []string{"p2"}},
	})
	if err != nil {
		t.Fatalf("SaveSessions() error = %v", err)
	}

	months, err := s.StripPlayerFromSessions(ctx, "p1")
	if err != nil {
		t.Fatalf("StripPlayerFromSessions() error = %v", err)
	}
	want := []core.MonthKey{"2026-01", "2026-02"}
	if len(months) != len(want) || months[0] != want[0] || months[1] != want[1] {
		t.Errorf("affected months = %v, want %v", months, want)
	}

	got, _ := s.GetSession(ctx, "s2")
	if len(got.PlayerIDs) != 0 {
		t.Errorf("s2 check-ins after strip = %v, want empty", got.PlayerIDs)
	}
}

func TestSettingsAbsentIsNilNil(t *testing.T) {
	s := New()
	ms, err := s.GetSettings(context.Background(), core.MonthKey("2026-01"))
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if ms != nil {
		t.Errorf("GetSettings() = %+v, want nil for absent month", ms)
	}
}
