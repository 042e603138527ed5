package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

// profileSessions is how many recent sessions the profile embeds.
const profileSessions = 5

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.ListPlayers(r.Context(), queryBool(r, "all"))
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, players)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.GetPlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

// CreatePlayer handles POST /api/v1/players
// @Summary Create Player
// @Tags Players
// @Accept json
// @Produce json
// @Security AdminToken
// @Param body body models.CreatePlayerRequest true "Player"
// @Success 201 {object} models.Player
// @Failure 409 {object} map[string]string
// @Router /players [post]
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlayerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	player, err := h.players.CreatePlayer(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusCreated, player)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePlayerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	player, err := h.players.UpdatePlayer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) ArchivePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.ArchivePlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) RestorePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.RestorePlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

// DeletePlayer removes the player for good. Their session results stay,
// credited to an anonymous placeholder.
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.players.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPlayerStats handles GET /api/v1/players/{id}/stats. A player without
// sessions has no stats document and gets {"stats": null}.
// @Summary Player Stats
// @Tags Stats
// @Produce json
// @Param id path string true "Player id"
// @Success 200 {object} map[string]interface{}
// @Router /players/{id}/stats [get]
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := h.stats.GetPlayerStats(r.Context(), id)
	if err != nil && !errors.Is(err, logic.ErrNotFound) {
		h.serviceError(w, r, err, "Player stats")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"playerId": id,
		"stats":    stats,
	})
}

func (h *Handler) GetPlayerBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badges.GetPlayerBadges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, badges)
}

// GetPlayerProfile fetches the player, stats, badges and recent sessions
// concurrently. A player without sessions gets a null stats object.
func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	profile := models.PlayerProfile{}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		p, err := h.players.GetPlayer(ctx, id)
		profile.Player = p
		return err
	})
	g.Go(func() error {
		s, err := h.stats.GetPlayerStats(ctx, id)
		if errors.Is(err, logic.ErrNotFound) {
			return nil
		}
		profile.Stats = s
		return err
	})
	g.Go(func() error {
		b, err := h.badges.GetPlayerBadges(ctx, id)
		profile.Badges = b
		return err
	})
	g.Go(func() error {
		s, err := h.sessions.ListSessions(ctx, models.SessionFilter{PlayerID: id, Limit: profileSessions})
		profile.RecentSessions = s
		return err
	})

	if err := g.Wait(); err != nil {
		h.serviceError(w, r, err, "Player")
		return
	}
	h.jsonResponse(w, http.StatusOK, profile)
}
