package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"courtsplit/internal/core"
)

// Ensure SQLiteRepository implements Store.
var _ Store = (*SQLiteRepository)(nil)

// SQLiteRepository is the default Store backed by a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListPlayers(ctx context.Context) ([]core.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM players ORDER BY position, name")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []core.Player
	for rows.Next() {
		var p core.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

func (r *SQLiteRepository) AddPlayer(ctx context.Context, p core.Player) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO players (id, name, position) VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM players))",
		p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemovePlayer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete player %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) StripPlayerFromSessions(ctx context.Context, id string) ([]core.MonthKey, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT substr(s.date, 1, 7)
		 FROM sessions s JOIN session_players sp ON sp.session_id = s.id
		 WHERE sp.player_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query affected months: %w", err)
	}
	var months []core.MonthKey
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan month key: %w", err)
		}
		months = append(months, core.MonthKey(key))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate affected months: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_players WHERE player_id = ?", id); err != nil {
		return nil, fmt.Errorf("strip player from sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return months, nil
}

func (r *SQLiteRepository) ListSessionsByMonth(ctx context.Context, year int, month time.Month) ([]core.Session, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, court_price, shuttlecock_price, water_price, drink_price, is_holiday
		 FROM sessions WHERE date LIKE ? || '%' ORDER BY date`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	for i := range sessions {
		ids, err := r.sessionPlayerIDs(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].PlayerIDs = ids
	}
	return sessions, nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (*core.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, court_price, shuttlecock_price, water_price, drink_price, is_holiday
		 FROM sessions WHERE id = ?`, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	ids, err := r.sessionPlayerIDs(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.PlayerIDs = ids
	return &s, nil
}

func (r *SQLiteRepository) SaveSession(ctx context.Context, s core.Session) error {
	return r.SaveSessions(ctx, []core.Session{s})
}

func (r *SQLiteRepository) SaveSessions(ctx context.Context, sessions []core.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range sessions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, date, court_price, shuttlecock_price, water_price, drink_price, is_holiday)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   date = excluded.date,
			   court_price = excluded.court_price,
			   shuttlecock_price = excluded.shuttlecock_price,
			   water_price = excluded.water_price,
			   drink_price = excluded.drink_price,
			   is_holiday = excluded.is_holiday`,
			s.ID, core.DayKey(s.Date), s.CourtPrice.VND, s.ShuttlecockPrice.VND,
			s.WaterPrice.VND, s.DrinkPrice.VND, boolToInt(s.IsHoliday))
		if err != nil {
			return fmt.Errorf("upsert session %s: %w", s.ID, err)
		}

		// Check-in lists are replace-on-write.
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_players WHERE session_id = ?", s.ID); err != nil {
			return fmt.Errorf("clear check-ins for %s: %w", s.ID, err)
		}
		for pos, pid := range s.PlayerIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO session_players (session_id, player_id, position) VALUES (?, ?, ?)",
				s.ID, pid, pos)
			if err != nil {
				return fmt.Errorf("insert check-in %s/%s: %w", s.ID, pid, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetSettings(ctx context.Context, key core.MonthKey) (*core.MonthlySettings, error) {
	ms := core.MonthlySettings{MonthKey: key}
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_court_fee, monthly_shuttlecock_price, session_water_price
		 FROM monthly_settings WHERE month_key = ?`, string(key)).
		Scan(&ms.MonthlyCourtFee.VND, &ms.MonthlyShuttlecockPrice.VND, &ms.SessionWaterPrice.VND)
	if err == sql.ErrNoRows {
		// Absent settings are a normal state, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings %s: %w", key, err)
	}
	return &ms, nil
}

func (r *SQLiteRepository) PutSettings(ctx context.Context, ms core.MonthlySettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_settings (month_key, monthly_court_fee, monthly_shuttlecock_price, session_water_price)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(month_key) DO UPDATE SET
		   monthly_court_fee = excluded.monthly_court_fee,
		   monthly_shuttlecock_price = excluded.monthly_shuttlecock_price,
		   session_water_price = excluded.session_water_price`,
		string(ms.MonthKey), ms.MonthlyCourtFee.VND, ms.MonthlyShuttlecockPrice.VND, ms.SessionWaterPrice.VND)
	if err != nil {
		return fmt.Errorf("put settings %s: %w", ms.MonthKey, err)
	}
	return nil
}

func (r *SQLiteRepository) sessionPlayerIDs(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT player_id FROM session_players WHERE session_id = ? ORDER BY position", sessionID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check-ins: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (core.Session, error) {
	var (
		s       core.Session
		date    string
		holiday int
	)
	err := row.Scan(&s.ID, &date, &s.CourtPrice.VND, &s.ShuttlecockPrice.VND,
		&s.WaterPrice.VND, &s.DrinkPrice.VND, &holiday)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Session{}, err
		}
		return core.Session{}, fmt.Errorf("scan session: %w", err)
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return core.Session{}, fmt.Errorf("parse session date %q: %w", date, err)
	}
	s.Date = t
	s.IsHoliday = holiday != 0
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
