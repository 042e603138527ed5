package handlers

import (
	"net/http"
)

const (
	defaultActivityDays = 30
	maxActivityDays     = 365
	defaultPopularGames = 10
	maxPopularGames     = 100
)

// GetDailyActivity handles GET /api/v1/activity/daily
// @Summary Sessions Per Day
// @Tags Activity
// @Produce json
// @Param days query int false "Trailing window in days" default(30)
// @Success 200 {array} models.ActivityDay
// @Router /activity/daily [get]
func (h *Handler) GetDailyActivity(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultActivityDays)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if days <= 0 || days > maxActivityDays {
		days = defaultActivityDays
	}

	out, err := h.activity.DailyActivity(r.Context(), days)
	if err != nil {
		h.serviceError(w, r, err, "Activity")
		return
	}
	h.jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) GetGamePopularity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPopularGames)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 || limit > maxPopularGames {
		limit = defaultPopularGames
	}

	out, err := h.activity.GamePopularity(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err, "Activity")
		return
	}
	h.jsonResponse(w, http.StatusOK, out)
}
