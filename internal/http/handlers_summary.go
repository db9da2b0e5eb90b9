package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"courtsplit/internal/core"
)

type dueRow struct {
	Name    string
	Rounded string
	Exact   float64
}

type summaryView struct {
	Month        string
	MonthLabel   string
	Dues         []dueRow
	SessionCount int
	TotalCost    string
}

type sessionRow struct {
	ID        string
	Date      string
	Weekday   string
	Court     string
	Shuttle   string
	Water     string
	Drink     string
	Total     string
	IsHoliday bool
	Players   []playerCheck
}

type playerCheck struct {
	ID        string
	Name      string
	CheckedIn bool
}

type sessionListView struct {
	Month    string
	Sessions []sessionRow
}

type rosterView struct {
	Players []core.Player
}

// handleMonthSummary renders the per-player dues table for one month. The
// rendered partial is cached per month key; mutation handlers invalidate it.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	key, err := ParseMonthKeyParam(r.URL.Query(), time.Now())
	if err != nil {
		BadRequestError("Invalid month (expected YYYY-MM)").Write(w)
		return
	}

	if html, ok := s.summaryCache.Get(string(key)); ok {
		NewHTMXResponse().BodyHTML(html).Write(w)
		return
	}

	view, err := s.buildSummaryView(r, key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build month summary", "error", err, "month", string(key))
		InternalServerError("Could not load the month summary").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "month_summary.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Summary template execution failed", "error", err, "month", string(key))
		InternalServerError("Could not render the month summary").Write(w)
		return
	}

	s.summaryCache.Set(string(key), buf.String())
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

func (s *Server) buildSummaryView(r *http.Request, key core.MonthKey) (summaryView, error) {
	year, month, err := key.Parse()
	if err != nil {
		return summaryView{}, err
	}

	sessions, err := s.store.ListSessionsByMonth(r.Context(), year, month)
	if err != nil {
		return summaryView{}, err
	}
	players, err := s.store.ListPlayers(r.Context())
	if err != nil {
		return summaryView{}, err
	}

	var total int64
	for _, sess := range sessions {
		total += sess.TotalCost().VND
	}

	view := summaryView{
		Month:        string(key),
		MonthLabel:   key.Label(),
		SessionCount: len(sessions),
		TotalCost:    core.FormatVND(core.Money{VND: total}),
	}
	for _, due := range core.MonthlyDues(sessions, players) {
		view.Dues = append(view.Dues, dueRow{
			Name:    due.Player.Name,
			Rounded: core.FormatVND(core.RoundUpToThousand(due.TotalOwed)),
			Exact:   due.TotalOwed,
		})
	}
	return view, nil
}

// handleSessionList renders the month's sessions with per-session check-in
// checkboxes against the current roster.
func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	key, err := ParseMonthKeyParam(r.URL.Query(), time.Now())
	if err != nil {
		BadRequestError("Invalid month (expected YYYY-MM)").Write(w)
		return
	}
	year, month, err := key.Parse()
	if err != nil {
		BadRequestError("Invalid month (expected YYYY-MM)").Write(w)
		return
	}

	sessions, err := s.store.ListSessionsByMonth(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list sessions", "error", err, "month", string(key))
		InternalServerError("Could not load the session list").Write(w)
		return
	}
	players, err := s.store.ListPlayers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list players", "error", err)
		InternalServerError("Could not load the roster").Write(w)
		return
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })

	view := sessionListView{Month: string(key)}
	for _, sess := range sessions {
		row := sessionRow{
			ID:        sess.ID,
			Date:      core.DayKey(sess.Date),
			Weekday:   sess.Date.Weekday().String(),
			Court:     core.FormatVND(sess.CourtPrice),
			Shuttle:   core.FormatVND(sess.ShuttlecockPrice),
			Water:     core.FormatVND(sess.WaterPrice),
			Drink:     core.FormatVND(sess.DrinkPrice),
			Total:     core.FormatVND(sess.TotalCost()),
			IsHoliday: sess.IsHoliday,
		}
		for _, p := range players {
			row.Players = append(row.Players, playerCheck{
				ID:        p.ID,
				Name:      p.Name,
				CheckedIn: sess.HasPlayer(p.ID),
			})
		}
		view.Sessions = append(view.Sessions, row)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "session_list.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Session list template execution failed", "error", err, "month", string(key))
		InternalServerError("Could not render the session list").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

func (s *Server) handleRosterList(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	players, err := s.store.ListPlayers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list players", "error", err)
		InternalServerError("Could not load the roster").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "roster.html", rosterView{Players: players}); err != nil {
		slog.ErrorContext(r.Context(), "Roster template execution failed", "error", err)
		InternalServerError("Could not render the roster").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}
