package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

// ListGames handles GET /api/v1/games
// @Summary List Games
// @Tags Games
// @Produce json
// @Param all query bool false "Include inactive games"
// @Success 200 {array} models.GameDefinition
// @Router /games [get]
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListGames(r.Context(), queryBool(r, "all"))
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	h.jsonResponse(w, http.StatusOK, games)
}

// GetGame accepts either the game id or its slug.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	h.jsonResponse(w, http.StatusOK, game)
}

// CreateGame handles POST /api/v1/games
// @Summary Create Game
// @Tags Games
// @Accept json
// @Produce json
// @Security AdminToken
// @Param body body models.CreateGameRequest true "Game"
// @Success 201 {object} models.GameDefinition
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /games [post]
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGameRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	game, err := h.games.CreateGame(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	h.jsonResponse(w, http.StatusCreated, game)
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGameRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	game, err := h.games.UpdateGame(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	h.jsonResponse(w, http.StatusOK, game)
}

// DeactivateGame hides the game from recording; its history stays.
func (h *Handler) DeactivateGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.DeactivateGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGameLeaderboard handles GET /api/v1/games/{id}/leaderboard
// @Summary Per-Game Leaderboard
// @Description Players ranked by points earned in one game, optionally for one player count
// @Tags Leaderboards
// @Produce json
// @Param id path string true "Game id or slug"
// @Param playerCount query int false "Only sessions with this many players"
// @Param limit query int false "Limit" default(10)
// @Success 200 {object} models.Leaderboard
// @Failure 404 {object} map[string]string
// @Router /games/{id}/leaderboard [get]
func (h *Handler) GetGameLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit", logic.DefaultLeaderboardLimit)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var playerCount *int
	if r.URL.Query().Get("playerCount") != "" {
		n, err := queryInt(r, "playerCount", 0)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		playerCount = &n
	}

	game, err := h.games.GetGame(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Game")
		return
	}

	board, err := h.leaderboard.GetGameLeaderboard(ctx, game.ID, playerCount, limit)
	if err != nil {
		h.serviceError(w, r, err, "Leaderboard")
		return
	}
	h.jsonResponse(w, http.StatusOK, board)
}
