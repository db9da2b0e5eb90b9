package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"courtsplit/internal/core"
	"courtsplit/internal/storage"
)

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name := sanitizeInput(r.FormValue("name"))
	player, err := s.roster.AddPlayer(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyName):
			BadRequestError("Player name cannot be empty").Write(w)
		case errors.Is(err, core.ErrDuplicatePlayer):
			UnprocessableEntityError("A player with this name is already in the roster").Write(w)
		case errors.Is(err, storage.ErrReadOnlyRoster):
			WarningResponse("The roster is fixed in this deployment and cannot be changed").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Failed to add player", "error", err)
			InternalServerError("Could not add the player").Write(w)
		}
		return
	}

	SuccessResponse("Added " + player.Name).
		TriggerRosterChanged().
		Write(w)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing player id").Write(w)
		return
	}

	if err := s.roster.DeletePlayer(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			NotFoundError("Player not found").Write(w)
		case errors.Is(err, storage.ErrReadOnlyRoster):
			WarningResponse("The roster is fixed in this deployment and cannot be changed").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Failed to delete player", "error", err, "player_id", id)
			InternalServerError("Could not delete the player").Write(w)
		}
		return
	}

	// The cascade may have touched any month's check-in lists; drop every
	// cached summary we could still serve.
	now := time.Now()
	for _, key := range core.AvailableMonths(now) {
		s.invalidateSummary(key)
	}

	SuccessResponse("Player removed").
		TriggerRosterChanged().
		TriggerSessionsChanged(string(core.MonthKeyOf(now))).
		Write(w)
}
