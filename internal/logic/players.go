package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

type PlayerService struct {
	store  PlayerStore
	cache  Cache
	logger *zap.SugaredLogger
	now    Clock
}

// NewPlayerService wires the player roster. cache may be nil.
func NewPlayerService(store PlayerStore, cache Cache, logger *zap.Logger) *PlayerService {
	return &PlayerService{
		store:  store,
		cache:  cache,
		logger: logger.Sugar(),
		now:    time.Now,
	}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if name == models.DeletedPlayerName {
		return nil, validationErrorf("name %q is reserved", name)
	}

	now := s.now().UTC()
	p := &models.Player{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Bio:       req.Bio,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("create player %q: %w", name, err)
	}
	s.logger.Infow("Player created", "player", p.ID, "name", p.Name)
	return p, nil
}

// UpdatePlayer edits profile fields. Renaming does not rewrite session
// history; stats pick up the name from the player's latest session.
func (s *PlayerService) UpdatePlayer(ctx context.Context, id string, req models.UpdatePlayerRequest) (*models.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErrorf("name is required")
		}
		if name == models.DeletedPlayerName {
			return nil, validationErrorf("name %q is reserved", name)
		}
		p.Name = name
	}
	if req.Email != nil {
		p.Email = strings.TrimSpace(*req.Email)
	}
	if req.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	return p, s.save(ctx, p)
}

// ArchivePlayer hides the player from the roster and from new sessions.
// History and stats are untouched.
func (s *PlayerService) ArchivePlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.setActive(ctx, id, false)
}

func (s *PlayerService) RestorePlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.setActive(ctx, id, true)
}

func (s *PlayerService) setActive(ctx context.Context, id string, active bool) (*models.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsActive == active {
		return p, nil
	}
	p.IsActive = active
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("Player active flag changed", "player", id, "active", active)
	return p, nil
}

func (s *PlayerService) save(ctx context.Context, p *models.Player) error {
	p.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePlayer(ctx, p); err != nil {
		return fmt.Errorf("update player %s: %w", p.ID, err)
	}
	return nil
}

// DeletePlayer removes the player for good. Their session results remain
// (so other players' stats are unaffected) but are anonymized.
func (s *PlayerService) DeletePlayer(ctx context.Context, id string) error {
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warnw("Failed to invalidate leaderboard cache", "player", id, "error", err)
		}
	}
	s.logger.Infow("Player deleted", "player", id)
	return nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

func (s *PlayerService) ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error) {
	return s.store.ListPlayers(ctx, includeArchived)
}
