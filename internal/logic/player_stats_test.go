package logic

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

var baseTime = time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

type seat struct {
	id     string
	name   string
	rank   int
	points int
}

func session(id, gameID string, playedAt time.Time, seats ...seat) models.GameSession {
	s := models.GameSession{
		ID:              id,
		GameID:          gameID,
		GameName:        "Game " + gameID,
		ScoringMode:     models.ScoringPointing,
		PointsPerPlayer: 5,
		PlayerCount:     len(seats),
		PlayedAt:        playedAt,
	}
	for _, st := range seats {
		s.Results = append(s.Results, models.GameResult{PlayerID: st.id, PlayerName: st.name, Rank: st.rank, PointsEarned: st.points})
		s.TotalPointsPool += st.points
	}
	return s
}

func newStatsFixture(t *testing.T) (*StatsService, *memStore, *memCache) {
	t.Helper()
	store := newMemStore()
	cache := newMemCache()
	svc := NewStatsService(StatsServiceConfig{
		Sessions: store,
		Stats:    store,
		Cache:    cache,
		Logger:   zap.NewNop(),
		Clock:    fixedClock(baseTime.Add(24 * time.Hour)),
	})
	return svc, store, cache
}

func TestBuildPlayerStats(t *testing.T) {
	sessions := []models.GameSession{
		// most recent first
		session("s3", "catan", baseTime.Add(2*time.Hour),
			seat{"p1", "Alice Renamed", 2, 4}, seat{"p2", "Bob", 1, 14}, seat{"p3", "Cy", 3, 2}, seat{"p4", "Di", 4, 0}),
		session("s2", "azul", baseTime.Add(time.Hour),
			seat{"p1", "Alice", 1, 6}, seat{"p2", "Bob", 2, 2}, seat{"p3", "Cy", 3, 1}),
		session("s1", "catan", baseTime,
			seat{"p1", "Alice", 1, 14}, seat{"p2", "Bob", 2, 4}, seat{"p3", "Cy", 3, 2}, seat{"p4", "Di", 4, 0}),
	}

	got := BuildPlayerStats("p1", sessions, baseTime)
	require.NotNil(t, got)

	assert.Equal(t, "Alice Renamed", got.PlayerName, "name comes from the most recent session")
	assert.Equal(t, models.OverallStats{
		TotalGames:    3,
		TotalPoints:   24,
		AveragePoints: 8,
		Wins:          2,
		Podiums:       3,
		WinRate:       2.0 / 3.0,
	}, got.Overall)

	require.Len(t, got.GameStats, 2)
	catan := got.GameStats[0]
	assert.Equal(t, "catan", catan.GameID)
	assert.Equal(t, 2, catan.TotalGames)
	assert.Equal(t, 18, catan.TotalPoints)
	assert.Equal(t, 9.0, catan.AveragePoints)
	assert.Equal(t, 1, catan.Wins)
	assert.Equal(t, 2, catan.Podiums)
	assert.Equal(t, []models.PlayerCountStatsRow{
		{PlayerCount: 4, TotalGames: 2, TotalPoints: 18, AveragePoints: 9, Wins: 1, Podiums: 2},
	}, catan.ByPlayerCount)

	azul := got.GameStats[1]
	assert.Equal(t, "azul", azul.GameID)
	assert.Equal(t, []models.PlayerCountStatsRow{
		{PlayerCount: 3, TotalGames: 1, TotalPoints: 6, AveragePoints: 6, Wins: 1, Podiums: 1},
	}, azul.ByPlayerCount)
	assert.Equal(t, baseTime, got.LastUpdated)
}

func TestBuildPlayerStats_PlayerCountBucketsSorted(t *testing.T) {
	sessions := []models.GameSession{
		session("s2", "g", baseTime.Add(time.Hour), seat{"p1", "A", 1, 10}, seat{"p2", "B", 2, 3}, seat{"p3", "C", 3, 2}),
		session("s1", "g", baseTime, seat{"p1", "A", 2, 0}, seat{"p2", "B", 1, 10}),
	}
	got := BuildPlayerStats("p1", sessions, baseTime)
	require.NotNil(t, got)
	require.Len(t, got.GameStats[0].ByPlayerCount, 2)
	assert.Equal(t, 2, got.GameStats[0].ByPlayerCount[0].PlayerCount)
	assert.Equal(t, 3, got.GameStats[0].ByPlayerCount[1].PlayerCount)
}

func TestBuildPlayerStats_NoSessions(t *testing.T) {
	assert.Nil(t, BuildPlayerStats("p1", nil, baseTime))

	other := []models.GameSession{session("s1", "g", baseTime, seat{"p2", "B", 1, 10})}
	assert.Nil(t, BuildPlayerStats("p1", other, baseTime))
}

func TestRecalculatePlayerStats_Idempotent(t *testing.T) {
	svc, store, _ := newStatsFixture(t)
	ctx := context.Background()

	for _, s := range []models.GameSession{
		session("s1", "catan", baseTime, seat{"p1", "Alice", 1, 14}, seat{"p2", "Bob", 2, 4}, seat{"p3", "Cy", 3, 2}),
		session("s2", "catan", baseTime.Add(time.Hour), seat{"p1", "Alice", 3, 2}, seat{"p2", "Bob", 1, 14}, seat{"p3", "Cy", 2, 4}),
	} {
		require.NoError(t, store.CreateSession(ctx, &s))
	}

	first, err := svc.RecalculatePlayerStats(ctx, "p1")
	require.NoError(t, err)
	second, err := svc.RecalculatePlayerStats(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.GameStats, second.GameStats)

	stored, err := svc.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 16, stored.Overall.TotalPoints)
}

func TestRecalculatePlayerStats_RemovesStatsWhenNoSessions(t *testing.T) {
	svc, store, cache := newStatsFixture(t)
	ctx := context.Background()

	s := session("s1", "azul", baseTime, seat{"p1", "Alice", 1, 6}, seat{"p2", "Bob", 2, 2}, seat{"p3", "Cy", 3, 1})
	require.NoError(t, store.CreateSession(ctx, &s))
	_, err := svc.RecalculatePlayerStats(ctx, "p1")
	require.NoError(t, err)
	_, err = svc.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, "s1"))
	got, err := svc.RecalculatePlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.GetPlayerStats(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound, "no zeroed record is left behind")

	// recalculating a player that never had stats is not an error
	_, err = svc.RecalculatePlayerStats(ctx, "ghost")
	assert.NoError(t, err)

	v, _ := cache.Version(ctx)
	assert.Equal(t, int64(3), v)
	assert.Len(t, cache.messages(ChannelStatsUpdated), 3)
}

func TestRecalculatePlayerStats_RequiresID(t *testing.T) {
	svc, _, _ := newStatsFixture(t)
	_, err := svc.RecalculatePlayerStats(context.Background(), " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecalculatePlayerStats_MatchesRawSessions(t *testing.T) {
	svc, store, _ := newStatsFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	scorer := NewScorer(TieSplit)
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	games := []string{"catan", "azul", "wingspan"}

	for i := 0; i < 60; i++ {
		n := 2 + rng.Intn(len(players)-1)
		perm := rng.Perm(len(players))[:n]
		results := make([]models.GameResult, n)
		for j, idx := range perm {
			results[j] = models.GameResult{PlayerID: players[idx], PlayerName: players[idx], Rank: j + 1}
		}
		mode := models.ScoringPointing
		if i%3 == 0 {
			mode = models.ScoringWinnerTakesAll
		}
		s := models.GameSession{
			ID:          fmt.Sprintf("s%02d", i),
			GameID:      games[rng.Intn(len(games))],
			ScoringMode: mode,
			PlayerCount: n,
			PlayedAt:    baseTime.Add(time.Duration(i) * time.Hour),
			Results:     scorer.Score(mode, n, 4, results),
		}
		require.NoError(t, store.CreateSession(ctx, &s))
	}

	summary, err := svc.RecalculateAllStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(players), summary.Players)
	assert.Empty(t, summary.Failed)

	for _, p := range players {
		want, wins, games := 0, 0, 0
		for _, s := range store.sortedSessions() {
			if r, ok := s.ResultFor(p); ok {
				want += r.PointsEarned
				games++
				if r.Rank == 1 {
					wins++
				}
			}
		}
		got, err := svc.GetPlayerStats(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, want, got.Overall.TotalPoints, "player %s", p)
		assert.Equal(t, games, got.Overall.TotalGames, "player %s", p)
		assert.InDelta(t, float64(wins)/float64(games), got.Overall.WinRate, 1e-9, "player %s", p)
		assert.InDelta(t, float64(got.Overall.Wins)/float64(got.Overall.TotalGames), got.Overall.WinRate, 1e-9)

		perGame := 0
		for _, g := range got.GameStats {
			perGame += g.TotalPoints
			bucket := 0
			for _, pc := range g.ByPlayerCount {
				bucket += pc.TotalPoints
			}
			assert.Equal(t, g.TotalPoints, bucket)
		}
		assert.Equal(t, want, perGame)
	}
}

func TestRecalculateAllStats_ContinuesPastFailures(t *testing.T) {
	svc, store, _ := newStatsFixture(t)
	ctx := context.Background()

	s := session("s1", "azul", baseTime, seat{"p1", "Alice", 1, 6}, seat{"p2", "Bob", 2, 2}, seat{"", models.DeletedPlayerName, 3, 1})
	require.NoError(t, store.CreateSession(ctx, &s))
	store.failStatsFor["p2"] = errors.New("disk full")

	summary, err := svc.RecalculateAllStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Players, "deleted players are skipped")
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, []string{"p2"}, summary.Failed)

	_, err = svc.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)
}
