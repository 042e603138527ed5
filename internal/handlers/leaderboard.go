package handlers

import (
	"net/http"

	"github.com/tabletop-league/scorekeeper/internal/logic"
)

// GetLeaderboard handles GET /api/v1/leaderboard
// @Summary Overall Leaderboard
// @Description Players ranked by total points across every game
// @Tags Leaderboards
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Success 200 {object} models.Leaderboard
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", logic.DefaultLeaderboardLimit)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	board, err := h.leaderboard.GetOverallLeaderboard(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err, "Leaderboard")
		return
	}
	h.jsonResponse(w, http.StatusOK, board)
}

// ListBadges returns the static badge catalogue.
func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, logic.ListBadges())
}
