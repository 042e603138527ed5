package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

// ListSessions handles GET /api/v1/sessions
// @Summary List Sessions
// @Tags Sessions
// @Produce json
// @Param gameId query string false "Game id"
// @Param playerId query string false "Participant id"
// @Param limit query int false "Limit" default(20)
// @Param page query int false "Page" default(1)
// @Success 200 {array} models.GameSession
// @Router /sessions [get]
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", logic.DefaultSessionPageSize)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if limit <= 0 || limit > logic.MaxSessionPageSize {
		limit = logic.DefaultSessionPageSize
	}
	if page < 1 {
		page = 1
	}

	filter := models.SessionFilter{
		GameID:   r.URL.Query().Get("gameId"),
		PlayerID: r.URL.Query().Get("playerId"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	sessions, err := h.sessions.ListSessions(r.Context(), filter)
	if err != nil {
		h.serviceError(w, r, err, "Session")
		return
	}
	h.jsonResponse(w, http.StatusOK, sessions)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Session")
		return
	}
	h.jsonResponse(w, http.StatusOK, session)
}

// RecordSession handles POST /api/v1/sessions
// @Summary Record Session
// @Description Validates rankings, awards points and schedules stats recalculation
// @Tags Sessions
// @Accept json
// @Produce json
// @Security AdminToken
// @Param body body models.RecordSessionRequest true "Session"
// @Success 201 {object} models.GameSession
// @Failure 400 {object} map[string]string
// @Router /sessions [post]
func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var req models.RecordSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	session, err := h.sessions.RecordSession(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Session")
		return
	}
	h.jsonResponse(w, http.StatusCreated, session)
}

// PreviewScores scores a session without saving it.
func (h *Handler) PreviewScores(w http.ResponseWriter, r *http.Request) {
	var req models.RecordSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	session, err := h.sessions.PreviewScores(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	h.jsonResponse(w, http.StatusOK, session)
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	session, err := h.sessions.UpdateSession(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, r, err, "Session")
		return
	}
	h.jsonResponse(w, http.StatusOK, session)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err, "Session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateRankings is advisory: it always answers 200 with the verdict.
func (h *Handler) ValidateRankings(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRankingsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.jsonResponse(w, http.StatusOK, logic.ValidateRanks(req.Ranks))
}
