package models

// LeaderboardEntry is one ranked row of an overall or per-game board.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	PlayerID      string  `json:"playerId"`
	PlayerName    string  `json:"playerName"`
	TotalGames    int     `json:"totalGames"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	Wins          int     `json:"wins"`
	Podiums       int     `json:"podiums,omitempty"`
	WinRate       float64 `json:"winRate"`
}

type Leaderboard struct {
	GameID      string             `json:"gameId,omitempty"`
	PlayerCount *int               `json:"playerCount,omitempty"`
	Entries     []LeaderboardEntry `json:"entries"`
}
