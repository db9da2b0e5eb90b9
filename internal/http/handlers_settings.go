package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"courtsplit/internal/core"
)

// handleSaveSettings upserts a month's budget. Saving regenerates the
// month's schedule, so the success response reloads both the session list
// and the summary.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	key, err := ParseMonthKeyParam(r.PostForm, time.Now())
	if err != nil {
		BadRequestError("Invalid month (expected YYYY-MM)").Write(w)
		return
	}

	courtFee, err := ParseMoneyField(r.PostForm, "court_fee")
	if err != nil {
		BadRequestError("Monthly court fee must be a non-negative amount").Write(w)
		return
	}
	shuttleFee, err := ParseMoneyField(r.PostForm, "shuttlecock_fee")
	if err != nil {
		BadRequestError("Monthly shuttlecock price must be a non-negative amount").Write(w)
		return
	}
	waterFee, err := ParseMoneyField(r.PostForm, "water_fee")
	if err != nil {
		BadRequestError("Water price must be a non-negative amount").Write(w)
		return
	}

	ms := core.MonthlySettings{
		MonthKey:                key,
		MonthlyCourtFee:         courtFee,
		MonthlyShuttlecockPrice: shuttleFee,
		SessionWaterPrice:       waterFee,
	}

	if err := s.sessions.SaveSettings(r.Context(), ms); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidMonthKey):
			BadRequestError("Invalid month (expected YYYY-MM)").Write(w)
		case errors.Is(err, core.ErrInvalidAmount):
			BadRequestError("Amounts must be non-negative").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Failed to save settings", "error", err, "month", string(key))
			InternalServerError("Could not save the monthly settings").Write(w)
		}
		return
	}

	s.invalidateSummary(key)
	SuccessResponse("Settings saved for " + key.Label()).
		TriggerSettingsSaved(string(key)).
		TriggerSessionsChanged(string(key)).
		Write(w)
}
