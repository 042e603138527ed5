package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// ChannelBadgesAwarded receives a BadgeAward whenever a player earns new badges.
const ChannelBadgesAwarded = "badges:awarded"

type BadgeAward struct {
	PlayerID string   `json:"playerId"`
	Codes    []string `json:"codes"`
}

// Badge metrics derived from PlayerStats.
const (
	metricTotalGames    = "total_games"
	metricWins          = "wins"
	metricPodiums       = "podiums"
	metricTotalPoints   = "total_points"
	metricMaxGamePlays  = "max_game_plays"
	metricDistinctGames = "distinct_games"
	metricUnbeaten      = "unbeaten"
)

type badgeRule struct {
	badge models.Badge
	// every metric must reach its threshold
	threshold map[string]int
}

var badgeCatalogue = []badgeRule{
	{models.Badge{Code: "FIRST_GAME", Name: "First Roll", Description: "Play your first game", Icon: "dice", Tier: models.TierBronze},
		map[string]int{metricTotalGames: 1}},
	{models.Badge{Code: "GAMES_10", Name: "Regular", Description: "Play 10 games", Icon: "calendar", Tier: models.TierBronze},
		map[string]int{metricTotalGames: 10}},
	{models.Badge{Code: "GAMES_50", Name: "Veteran", Description: "Play 50 games", Icon: "shield", Tier: models.TierSilver},
		map[string]int{metricTotalGames: 50}},
	{models.Badge{Code: "GAMES_100", Name: "Centurion", Description: "Play 100 games", Icon: "crown", Tier: models.TierGold},
		map[string]int{metricTotalGames: 100}},
	{models.Badge{Code: "FIRST_WIN", Name: "First Victory", Description: "Win a game", Icon: "trophy", Tier: models.TierBronze},
		map[string]int{metricWins: 1}},
	{models.Badge{Code: "WINS_10", Name: "Champion", Description: "Win 10 games", Icon: "medal", Tier: models.TierSilver},
		map[string]int{metricWins: 10}},
	{models.Badge{Code: "PODIUM_10", Name: "Podium Regular", Description: "Finish in the top three 10 times", Icon: "podium", Tier: models.TierSilver},
		map[string]int{metricPodiums: 10}},
	{models.Badge{Code: "POINTS_250", Name: "Point Hoarder", Description: "Earn 250 points", Icon: "coins", Tier: models.TierGold},
		map[string]int{metricTotalPoints: 250}},
	{models.Badge{Code: "SPECIALIST", Name: "Specialist", Description: "Play the same game 10 times", Icon: "target", Tier: models.TierSilver},
		map[string]int{metricMaxGamePlays: 10}},
	{models.Badge{Code: "EXPLORER", Name: "Explorer", Description: "Play 5 different games", Icon: "compass", Tier: models.TierSilver},
		map[string]int{metricDistinctGames: 5}},
	{models.Badge{Code: "FLAWLESS", Name: "Flawless", Description: "Win every one of your first 5 or more games", Icon: "star", Tier: models.TierGold},
		map[string]int{metricTotalGames: 5, metricUnbeaten: 1}},
}

var badgesByCode = func() map[string]models.Badge {
	m := make(map[string]models.Badge, len(badgeCatalogue))
	for _, r := range badgeCatalogue {
		m[r.badge.Code] = r.badge
	}
	return m
}()

// ListBadges returns the badge catalogue in display order.
func ListBadges() []models.Badge {
	out := make([]models.Badge, len(badgeCatalogue))
	for i, r := range badgeCatalogue {
		out[i] = r.badge
	}
	return out
}

func badgeMetrics(s *models.PlayerStats) map[string]int {
	m := map[string]int{
		metricTotalGames:    s.Overall.TotalGames,
		metricWins:          s.Overall.Wins,
		metricPodiums:       s.Overall.Podiums,
		metricTotalPoints:   s.Overall.TotalPoints,
		metricDistinctGames: len(s.GameStats),
	}
	for _, g := range s.GameStats {
		m[metricMaxGamePlays] = max(m[metricMaxGamePlays], g.TotalGames)
	}
	if s.Overall.TotalGames > 0 && s.Overall.Wins == s.Overall.TotalGames {
		m[metricUnbeaten] = 1
	}
	return m
}

// EarnedBadgeCodes lists every catalogue badge the stats qualify for.
func EarnedBadgeCodes(s *models.PlayerStats) []string {
	if s == nil {
		return nil
	}
	metrics := badgeMetrics(s)
	var codes []string
	for _, r := range badgeCatalogue {
		if meetsThreshold(metrics, r.threshold) {
			codes = append(codes, r.badge.Code)
		}
	}
	return codes
}

func meetsThreshold(metrics, threshold map[string]int) bool {
	for key, required := range threshold {
		if metrics[key] < required {
			return false
		}
	}
	return true
}

type BadgeService struct {
	store  BadgeStore
	cache  Cache
	logger *zap.SugaredLogger
	now    Clock
}

// NewBadgeService wires badge awarding. cache may be nil.
func NewBadgeService(store BadgeStore, cache Cache, logger *zap.Logger) *BadgeService {
	return &BadgeService{
		store:  store,
		cache:  cache,
		logger: logger.Sugar(),
		now:    time.Now,
	}
}

// AwardForStats persists every badge the fresh stats qualify for and returns
// the ones the player did not hold yet. Badges are never revoked.
func (s *BadgeService) AwardForStats(ctx context.Context, stats *models.PlayerStats) ([]string, error) {
	codes := EarnedBadgeCodes(stats)
	if len(codes) == 0 {
		return nil, nil
	}

	added, err := s.store.AwardBadges(ctx, stats.PlayerID, codes, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("award badges to %s: %w", stats.PlayerID, err)
	}
	if len(added) == 0 {
		return nil, nil
	}

	s.logger.Infow("Badges awarded", "player", stats.PlayerID, "badges", added)
	if s.cache != nil {
		msg, _ := json.Marshal(BadgeAward{PlayerID: stats.PlayerID, Codes: added})
		if err := s.cache.Publish(ctx, ChannelBadgesAwarded, msg); err != nil {
			s.logger.Warnw("Failed to publish badge award", "player", stats.PlayerID, "error", err)
		}
	}
	return added, nil
}

// GetPlayerBadges returns the player's earned badges with catalogue details.
func (s *BadgeService) GetPlayerBadges(ctx context.Context, playerID string) ([]models.PlayerBadge, error) {
	earned, err := s.store.ListPlayerBadges(ctx, playerID)
	if err != nil {
		return nil, err
	}
	for i := range earned {
		if b, ok := badgesByCode[earned[i].BadgeCode]; ok {
			earned[i].Badge = &b
		}
	}
	return earned, nil
}
