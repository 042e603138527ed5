package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

const defaultGameCacheSize = 256

// GameService manages game definitions. Lookups by id are served from an
// in-process LRU since every recorded session reads its game.
type GameService struct {
	store  GameStore
	cache  *lru.Cache[string, models.GameDefinition]
	logger *zap.SugaredLogger
	now    Clock
}

func NewGameService(store GameStore, cacheSize int, logger *zap.Logger) (*GameService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultGameCacheSize
	}
	cache, err := lru.New[string, models.GameDefinition](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("game cache: %w", err)
	}
	return &GameService{
		store:  store,
		cache:  cache,
		logger: logger.Sugar(),
		now:    time.Now,
	}, nil
}

func (s *GameService) CreateGame(ctx context.Context, req models.CreateGameRequest) (*models.GameDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if !req.ScoringMode.Valid() {
		return nil, validationErrorf("unknown scoring mode %q", req.ScoringMode)
	}
	if req.PointsPerPlayer < 0 {
		return nil, validationErrorf("pointsPerPlayer must be positive")
	}
	ppp := req.PointsPerPlayer
	if ppp == 0 {
		ppp = req.ScoringMode.DefaultPointsPerPlayer()
	}

	now := s.now().UTC()
	g := &models.GameDefinition{
		ID:              uuid.NewString(),
		Name:            name,
		Slug:            slug.Make(name),
		ScoringMode:     req.ScoringMode,
		PointsPerPlayer: ppp,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, fmt.Errorf("create game %q: %w", name, err)
	}
	s.cache.Add(g.ID, *g)
	s.logger.Infow("Game created", "game", g.ID, "name", g.Name, "mode", g.ScoringMode)
	return g, nil
}

// UpdateGame applies the non-nil fields of req. Existing sessions keep the
// scoring snapshot they were recorded with.
func (s *GameService) UpdateGame(ctx context.Context, id string, req models.UpdateGameRequest) (*models.GameDefinition, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErrorf("name is required")
		}
		g.Name = name
		g.Slug = slug.Make(name)
	}
	if req.ScoringMode != nil {
		if !req.ScoringMode.Valid() {
			return nil, validationErrorf("unknown scoring mode %q", *req.ScoringMode)
		}
		g.ScoringMode = *req.ScoringMode
	}
	if req.PointsPerPlayer != nil {
		if *req.PointsPerPlayer <= 0 {
			return nil, validationErrorf("pointsPerPlayer must be positive")
		}
		g.PointsPerPlayer = *req.PointsPerPlayer
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	g.UpdatedAt = s.now().UTC()

	return g, s.save(ctx, g)
}

// DeactivateGame hides the game from recording. Games are never hard deleted.
func (s *GameService) DeactivateGame(ctx context.Context, id string) error {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return err
	}
	if !g.IsActive {
		return nil
	}
	g.IsActive = false
	g.UpdatedAt = s.now().UTC()
	return s.save(ctx, g)
}

func (s *GameService) save(ctx context.Context, g *models.GameDefinition) error {
	s.cache.Remove(g.ID)
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return fmt.Errorf("update game %s: %w", g.ID, err)
	}
	s.cache.Add(g.ID, *g)
	return nil
}

// GetGame resolves a game by id, falling back to its slug.
func (s *GameService) GetGame(ctx context.Context, idOrSlug string) (*models.GameDefinition, error) {
	if g, ok := s.cache.Get(idOrSlug); ok {
		return &g, nil
	}

	g, err := s.store.GetGame(ctx, idOrSlug)
	if err == nil {
		s.cache.Add(g.ID, *g)
		return g, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return s.store.GetGameBySlug(ctx, idOrSlug)
}

func (s *GameService) ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	return s.store.ListGames(ctx, includeInactive)
}
