package models

import "time"

// PlayerStats is the materialized summary of a player's session history.
// It is always reproducible from GameSession records and is never edited directly.
type PlayerStats struct {
	PlayerID    string         `json:"playerId"`
	PlayerName  string         `json:"playerName"`
	Overall     OverallStats   `json:"overall"`
	GameStats   []GameStatsRow `json:"gameStats"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

type OverallStats struct {
	TotalGames    int     `json:"totalGames"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	Wins          int     `json:"wins"`
	Podiums       int     `json:"podiums"`
	WinRate       float64 `json:"winRate"`
}

// GameStatsRow is the per-game breakdown of a player's results.
type GameStatsRow struct {
	GameID        string                `json:"gameId"`
	GameName      string                `json:"gameName"`
	TotalGames    int                   `json:"totalGames"`
	TotalPoints   int                   `json:"totalPoints"`
	AveragePoints float64               `json:"averagePoints"`
	Wins          int                   `json:"wins"`
	Podiums       int                   `json:"podiums"`
	ByPlayerCount []PlayerCountStatsRow `json:"byPlayerCount"`
}

// PlayerCountStatsRow aggregates sessions with exactly PlayerCount participants.
type PlayerCountStatsRow struct {
	PlayerCount   int     `json:"playerCount"`
	TotalGames    int     `json:"totalGames"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	Wins          int     `json:"wins"`
	Podiums       int     `json:"podiums"`
}

// GameRow returns the breakdown for gameID.
func (s *PlayerStats) GameRow(gameID string) (GameStatsRow, bool) {
	for _, g := range s.GameStats {
		if g.GameID == gameID {
			return g, true
		}
	}
	return GameStatsRow{}, false
}

// RecalcSummary reports the outcome of a bulk recalculation.
type RecalcSummary struct {
	Players int      `json:"players"`
	Updated int      `json:"updated"`
	Removed int      `json:"removed"`
	Failed  []string `json:"failed"`
}
