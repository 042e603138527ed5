package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

func (h *Handler) ListGameNights(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", logic.DefaultUpcomingLimit)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	nights, err := h.gameNights.ListUpcoming(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	h.jsonResponse(w, http.StatusOK, nights)
}

func (h *Handler) GetGameNight(w http.ResponseWriter, r *http.Request) {
	night, err := h.gameNights.GetGameNight(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	h.jsonResponse(w, http.StatusOK, night)
}

// ScheduleGameNight handles POST /api/v1/game-nights
// @Summary Schedule Game Night
// @Tags Game Nights
// @Accept json
// @Produce json
// @Security AdminToken
// @Param body body models.ScheduleGameNightRequest true "Game night"
// @Success 201 {object} models.GameNight
// @Router /game-nights [post]
func (h *Handler) ScheduleGameNight(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleGameNightRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	night, err := h.gameNights.ScheduleGameNight(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	h.jsonResponse(w, http.StatusCreated, night)
}

func (h *Handler) UpdateGameNight(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGameNightRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	night, err := h.gameNights.UpdateGameNight(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	h.jsonResponse(w, http.StatusOK, night)
}

func (h *Handler) CancelGameNight(w http.ResponseWriter, r *http.Request) {
	if err := h.gameNights.CancelGameNight(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RSVPGameNight records or replaces a player's answer.
func (h *Handler) RSVPGameNight(w http.ResponseWriter, r *http.Request) {
	var req models.RSVPRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	night, err := h.gameNights.RSVP(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, r, err, "Game night")
		return
	}
	h.jsonResponse(w, http.StatusOK, night)
}
