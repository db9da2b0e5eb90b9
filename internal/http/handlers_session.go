package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"courtsplit/internal/core"
	"courtsplit/internal/services"
	"courtsplit/internal/storage"
)

// formatAmountInput renders a Money value as a plain digit string suitable
// for form input values.
func formatAmountInput(m core.Money) string {
	return strconv.FormatInt(m.VND, 10)
}

// handleAddManualSession serves the manual-entry form in two steps: a GET
// with a date returns prefilled price inputs derived from the month's
// settings, a POST stores the session. Court and shuttlecock prices are
// always the computed defaults for the date; only water and drink are
// user-entered.
func (s *Server) handleAddManualSession(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.handleManualDefaults(w, r)
		return
	}
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	date, err := ParseDateParam(r.PostForm)
	if err != nil {
		BadRequestError("Invalid or missing date (expected YYYY-MM-DD)").Write(w)
		return
	}

	defaults, err := services.DefaultPrices(r.Context(), s.store, date)
	if err != nil {
		if errors.Is(err, core.ErrNoSettings) {
			WarningResponse("No budget recorded for " + core.MonthKeyOf(date).Label() + " yet. Save the monthly settings before adding sessions.").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to compute session prices", "error", err, "date", core.DayKey(date))
		InternalServerError("Could not compute session prices").Write(w)
		return
	}

	water, err := ParseMoneyField(r.PostForm, "water_price")
	if err != nil {
		BadRequestError("Water price must be a non-negative amount").Write(w)
		return
	}
	drink, err := ParseMoneyField(r.PostForm, "drink_price")
	if err != nil {
		BadRequestError("Drink price must be a non-negative amount").Write(w)
		return
	}

	sess, err := s.sessions.AddManual(r.Context(), date, defaults.CourtPrice, defaults.ShuttlecockPrice, water, drink)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to add manual session", "error", err, "date", core.DayKey(date))
		if errors.Is(err, core.ErrInvalidAmount) {
			BadRequestError("Prices must be non-negative amounts").Write(w)
			return
		}
		InternalServerError("Could not save the session").Write(w)
		return
	}

	key := core.MonthKeyOf(sess.Date)
	s.invalidateSummary(key)
	SuccessResponse("Session added for " + core.DayKey(sess.Date)).
		TriggerSessionsChanged(string(key)).
		Write(w)
}

// handleManualDefaults returns prefilled price inputs for a candidate date,
// splitting the month's budget over its scheduled playing days.
func (s *Server) handleManualDefaults(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDateParam(r.URL.Query())
	if err != nil {
		BadRequestError("Invalid or missing date (expected YYYY-MM-DD)").Write(w)
		return
	}

	defaults, err := services.DefaultPrices(r.Context(), s.store, date)
	if err != nil {
		if errors.Is(err, core.ErrNoSettings) {
			WarningResponse("No budget recorded for " + core.MonthKeyOf(date).Label() + " yet. Save the monthly settings first, or enter prices by hand.").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to compute manual defaults", "error", err, "date", core.DayKey(date))
		InternalServerError("Could not compute default prices").Write(w)
		return
	}

	// Court and shuttlecock are computed server-side on submit; the inputs
	// are shown read-only so the user sees the derived split. Numeric values
	// only, no escaping needed.
	fragment := fmt.Sprintf(
		`<input type="number" name="court_price" value="%s" readonly>`+
			`<input type="number" name="shuttlecock_price" value="%s" readonly>`+
			`<input type="number" name="water_price" value="%s" min="0" step="1000">`+
			`<input type="number" name="drink_price" value="0" min="0" step="1000">`,
		formatAmountInput(defaults.CourtPrice),
		formatAmountInput(defaults.ShuttlecockPrice),
		formatAmountInput(defaults.WaterPrice))

	NewHTMXResponse().BodyHTML(fragment).Write(w)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.FormValue("id"))
	if id == "" {
		BadRequestError("Missing session id").Write(w)
		return
	}

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Session not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load session", "error", err, "session_id", id)
		InternalServerError("Could not load the session").Write(w)
		return
	}

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete session", "error", err, "session_id", id)
		InternalServerError("Could not delete the session").Write(w)
		return
	}

	key := core.MonthKeyOf(sess.Date)
	s.invalidateSummary(key)
	SuccessResponse("Session removed").
		TriggerSessionsChanged(string(key)).
		Write(w)
}

// handleCheckIn replaces a session's check-in list with the submitted
// player ids. An empty submission clears all check-ins.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.FormValue("session_id"))
	if id == "" {
		BadRequestError("Missing session id").Write(w)
		return
	}

	var playerIDs []string
	for _, v := range r.PostForm["players"] {
		if v = sanitizeInput(v); v != "" {
			playerIDs = append(playerIDs, v)
		}
	}

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Session not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load session", "error", err, "session_id", id)
		InternalServerError("Could not load the session").Write(w)
		return
	}

	if err := s.sessions.SetCheckIns(r.Context(), id, playerIDs); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update check-ins", "error", err, "session_id", id)
		InternalServerError("Could not update check-ins").Write(w)
		return
	}

	key := core.MonthKeyOf(sess.Date)
	s.invalidateSummary(key)
	SuccessResponse("Check-ins updated").
		TriggerSessionsChanged(string(key)).
		Write(w)
}

func (s *Server) handleHoliday(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.FormValue("session_id"))
	if id == "" {
		BadRequestError("Missing session id").Write(w)
		return
	}
	holiday := r.FormValue("holiday") == "true" || r.FormValue("holiday") == "on"

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Session not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load session", "error", err, "session_id", id)
		InternalServerError("Could not load the session").Write(w)
		return
	}

	if err := s.sessions.SetHoliday(r.Context(), id, holiday); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update holiday flag", "error", err, "session_id", id)
		InternalServerError("Could not update the holiday flag").Write(w)
		return
	}

	key := core.MonthKeyOf(sess.Date)
	s.invalidateSummary(key)

	msg := "Marked " + core.DayKey(sess.Date) + " as a holiday"
	if !holiday {
		msg = "Restored " + core.DayKey(sess.Date) + " as a playing day"
	}
	SuccessResponse(msg).
		TriggerSessionsChanged(string(key)).
		Write(w)
}
