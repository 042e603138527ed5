package logic

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// ChannelStatsUpdated receives the player id after every recalculation.
const ChannelStatsUpdated = "stats:updated"

// BuildPlayerStats folds a player's sessions into a PlayerStats document.
// sessions must be ordered by playedAt descending; the first one supplies
// the display name. Returns nil when the player has no sessions.
func BuildPlayerStats(playerID string, sessions []models.GameSession, now time.Time) *models.PlayerStats {
	stats := &models.PlayerStats{
		PlayerID:    playerID,
		GameStats:   []models.GameStatsRow{},
		LastUpdated: now,
	}

	gameIdx := make(map[string]int)
	countIdx := make(map[string]map[int]int)

	for _, s := range sessions {
		result, ok := s.ResultFor(playerID)
		if !ok {
			continue
		}
		if stats.PlayerName == "" {
			stats.PlayerName = result.PlayerName
		}

		won := result.Rank == 1
		podium := result.Rank >= 1 && result.Rank <= 3

		stats.Overall.TotalGames++
		stats.Overall.TotalPoints += result.PointsEarned
		if won {
			stats.Overall.Wins++
		}
		if podium {
			stats.Overall.Podiums++
		}

		gi, ok := gameIdx[s.GameID]
		if !ok {
			gi = len(stats.GameStats)
			gameIdx[s.GameID] = gi
			countIdx[s.GameID] = make(map[int]int)
			stats.GameStats = append(stats.GameStats, models.GameStatsRow{
				GameID:        s.GameID,
				GameName:      s.GameName,
				ByPlayerCount: []models.PlayerCountStatsRow{},
			})
		}
		g := &stats.GameStats[gi]
		g.TotalGames++
		g.TotalPoints += result.PointsEarned
		g.AveragePoints = ratio(g.TotalPoints, g.TotalGames)
		if won {
			g.Wins++
		}
		if podium {
			g.Podiums++
		}

		ci, ok := countIdx[s.GameID][s.PlayerCount]
		if !ok {
			ci = len(g.ByPlayerCount)
			countIdx[s.GameID][s.PlayerCount] = ci
			g.ByPlayerCount = append(g.ByPlayerCount, models.PlayerCountStatsRow{PlayerCount: s.PlayerCount})
		}
		pc := &g.ByPlayerCount[ci]
		pc.TotalGames++
		pc.TotalPoints += result.PointsEarned
		pc.AveragePoints = ratio(pc.TotalPoints, pc.TotalGames)
		if won {
			pc.Wins++
		}
		if podium {
			pc.Podiums++
		}
	}

	if stats.Overall.TotalGames == 0 {
		return nil
	}

	stats.Overall.AveragePoints = ratio(stats.Overall.TotalPoints, stats.Overall.TotalGames)
	stats.Overall.WinRate = ratio(stats.Overall.Wins, stats.Overall.TotalGames)

	for i := range stats.GameStats {
		slices.SortFunc(stats.GameStats[i].ByPlayerCount, func(a, b models.PlayerCountStatsRow) int {
			return cmp.Compare(a.PlayerCount, b.PlayerCount)
		})
	}
	return stats
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// StatsService maintains the PlayerStats projection of the session history.
type StatsService struct {
	sessions    SessionStore
	stats       StatsStore
	cache       Cache
	logger      *zap.SugaredLogger
	now         Clock
	concurrency int
}

type StatsServiceConfig struct {
	Sessions SessionStore
	Stats    StatsStore
	// Cache is optional; when set, leaderboards are invalidated after each write.
	Cache       Cache
	Logger      *zap.Logger
	Clock       Clock
	Concurrency int
}

func NewStatsService(cfg StatsServiceConfig) *StatsService {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &StatsService{
		sessions:    cfg.Sessions,
		stats:       cfg.Stats,
		cache:       cfg.Cache,
		logger:      cfg.Logger.Sugar(),
		now:         cfg.Clock,
		concurrency: cfg.Concurrency,
	}
}

// RecalculatePlayerStats rebuilds the player's stats from every session they
// played. A player without sessions loses their stats document and nil is
// returned.
func (s *StatsService) RecalculatePlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, validationErrorf("player id is required")
	}

	sessions, err := s.sessions.ListSessionsForPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load sessions for %s: %w", playerID, err)
	}

	stats := BuildPlayerStats(playerID, sessions, s.now().UTC())
	if stats == nil {
		if err := s.stats.DeletePlayerStats(ctx, playerID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("delete stats for %s: %w", playerID, err)
		}
	} else if err := s.stats.UpsertPlayerStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("upsert stats for %s: %w", playerID, err)
	}

	s.afterWrite(ctx, playerID)
	return stats, nil
}

func (s *StatsService) afterWrite(ctx context.Context, playerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warnw("Failed to invalidate leaderboard cache", "player", playerID, "error", err)
	}
	if err := s.cache.Publish(ctx, ChannelStatsUpdated, []byte(playerID)); err != nil {
		s.logger.Warnw("Failed to publish stats update", "player", playerID, "error", err)
	}
}

// RecalculateAllStats rebuilds stats for every player that appears in any
// session. One player's failure does not stop the others.
func (s *StatsService) RecalculateAllStats(ctx context.Context) (*models.RecalcSummary, error) {
	ids, err := s.sessions.ListParticipantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	summary := &models.RecalcSummary{Players: len(ids), Failed: []string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			stats, err := s.RecalculatePlayerStats(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				s.logger.Errorw("Stats recalculation failed", "player", id, "error", err)
				summary.Failed = append(summary.Failed, id)
			case stats == nil:
				summary.Removed++
			default:
				summary.Updated++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	slices.Sort(summary.Failed)

	s.logger.Infow("Recalculated all player stats",
		"players", summary.Players,
		"updated", summary.Updated,
		"removed", summary.Removed,
		"failed", len(summary.Failed),
	)
	return summary, nil
}

// GetPlayerStats returns ErrNotFound when the player has not played yet.
func (s *StatsService) GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	return s.stats.GetPlayerStats(ctx, playerID)
}
