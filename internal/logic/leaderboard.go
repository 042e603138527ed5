package logic

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ClampLimit applies the leaderboard default and ceiling.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		return MaxLeaderboardLimit
	default:
		return limit
	}
}

// LeaderboardService ranks players from the materialized stats documents.
// Boards are cached under a generation number that every stats write bumps.
type LeaderboardService struct {
	stats  StatsStore
	cache  Cache
	ttl    time.Duration
	logger *zap.SugaredLogger
	group  singleflight.Group
}

func NewLeaderboardService(stats StatsStore, cache Cache, ttl time.Duration, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		stats:  stats,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

// GetOverallLeaderboard ranks every player by total points.
func (s *LeaderboardService) GetOverallLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error) {
	limit = ClampLimit(limit)
	return s.cached(ctx, fmt.Sprintf("overall:%d", limit), func(ctx context.Context) (*models.Leaderboard, error) {
		rows, err := s.stats.ListTopPlayerStats(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list top stats: %w", err)
		}
		entries := make([]models.LeaderboardEntry, 0, len(rows))
		for _, st := range rows {
			o := st.Overall
			entries = append(entries, models.LeaderboardEntry{
				PlayerID:      st.PlayerID,
				PlayerName:    st.PlayerName,
				TotalGames:    o.TotalGames,
				TotalPoints:   o.TotalPoints,
				AveragePoints: o.AveragePoints,
				Wins:          o.Wins,
				Podiums:       o.Podiums,
				WinRate:       o.WinRate,
			})
		}
		return &models.Leaderboard{Entries: rankEntries(entries, limit)}, nil
	})
}

// GetGameLeaderboard ranks players by points earned in one game, optionally
// restricted to sessions with exactly playerCount participants.
func (s *LeaderboardService) GetGameLeaderboard(ctx context.Context, gameID string, playerCount *int, limit int) (*models.Leaderboard, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, validationErrorf("game id is required")
	}
	if playerCount != nil && *playerCount < 1 {
		return nil, validationErrorf("playerCount must be at least 1")
	}
	limit = ClampLimit(limit)

	key := fmt.Sprintf("game:%s:all:%d", gameID, limit)
	if playerCount != nil {
		key = fmt.Sprintf("game:%s:pc%d:%d", gameID, *playerCount, limit)
	}

	return s.cached(ctx, key, func(ctx context.Context) (*models.Leaderboard, error) {
		rows, err := s.stats.ListPlayerStatsForGame(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("list stats for game %s: %w", gameID, err)
		}

		entries := make([]models.LeaderboardEntry, 0, len(rows))
		for _, st := range rows {
			g, ok := st.GameRow(gameID)
			if !ok {
				continue
			}
			entry := models.LeaderboardEntry{
				PlayerID:      st.PlayerID,
				PlayerName:    st.PlayerName,
				TotalGames:    g.TotalGames,
				TotalPoints:   g.TotalPoints,
				AveragePoints: g.AveragePoints,
				Wins:          g.Wins,
				Podiums:       g.Podiums,
				WinRate:       ratio(g.Wins, g.TotalGames),
			}
			if playerCount != nil {
				idx := slices.IndexFunc(g.ByPlayerCount, func(pc models.PlayerCountStatsRow) bool {
					return pc.PlayerCount == *playerCount
				})
				if idx < 0 {
					continue
				}
				pc := g.ByPlayerCount[idx]
				entry.TotalGames = pc.TotalGames
				entry.TotalPoints = pc.TotalPoints
				entry.AveragePoints = pc.AveragePoints
				entry.Wins = pc.Wins
				entry.Podiums = pc.Podiums
				entry.WinRate = ratio(pc.Wins, pc.TotalGames)
			}
			entries = append(entries, entry)
		}

		return &models.Leaderboard{
			GameID:      gameID,
			PlayerCount: playerCount,
			Entries:     rankEntries(entries, limit),
		}, nil
	})
}

// rankEntries sorts by points descending, name then id ascending, truncates
// to limit and assigns 1-based ranks.
func rankEntries(entries []models.LeaderboardEntry, limit int) []models.LeaderboardEntry {
	slices.SortFunc(entries, func(a, b models.LeaderboardEntry) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(a.PlayerName, b.PlayerName); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// cached serves key from the cache. Concurrent misses share one load, which
// is detached from the first caller's cancellation.
func (s *LeaderboardService) cached(ctx context.Context, key string, load func(context.Context) (*models.Leaderboard, error)) (*models.Leaderboard, error) {
	if s.cache == nil {
		return load(ctx)
	}

	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.Warnw("Leaderboard cache unavailable", "error", err)
		return load(ctx)
	}
	fullKey := fmt.Sprintf("leaderboard:v%d:%s", version, key)

	if raw, ok, err := s.cache.Get(ctx, fullKey); err != nil {
		s.logger.Warnw("Leaderboard cache read failed", "key", fullKey, "error", err)
	} else if ok {
		var board models.Leaderboard
		if err := json.Unmarshal(raw, &board); err == nil {
			return &board, nil
		}
		s.logger.Warnw("Discarding corrupt leaderboard cache entry", "key", fullKey)
	}

	v, err, _ := s.group.Do(fullKey, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		board, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(board); err == nil {
			if err := s.cache.Set(ctx, fullKey, raw, s.ttl); err != nil {
				s.logger.Warnw("Leaderboard cache write failed", "key", fullKey, "error", err)
			}
		}
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Leaderboard), nil
}
