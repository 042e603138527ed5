package models

import "time"

// GameResult is one participant's outcome inside a GameSession.
type GameResult struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	Rank         int    `json:"rank"`
	Score        *int   `json:"score,omitempty"`
	PointsEarned int    `json:"pointsEarned"`
}

// GameSession is one completed play of a game. ScoringMode and
// PointsPerPlayer are snapshots taken when the session was recorded.
type GameSession struct {
	ID              string       `json:"id"`
	GameID          string       `json:"gameId"`
	GameName        string       `json:"gameName"`
	ScoringMode     ScoringMode  `json:"scoringMode"`
	PointsPerPlayer int          `json:"pointsPerPlayer"`
	PlayerCount     int          `json:"playerCount"`
	PlayedAt        time.Time    `json:"playedAt"`
	Results         []GameResult `json:"results"`
	TotalPointsPool int          `json:"totalPointsPool"`
	Notes           string       `json:"notes,omitempty"`
	GameNightID     string       `json:"gameNightId,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// PlayerIDs returns the non-empty participant ids in result order.
func (s *GameSession) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		if r.PlayerID != "" {
			ids = append(ids, r.PlayerID)
		}
	}
	return ids
}

// ResultFor returns the result row for playerID, if the player took part.
func (s *GameSession) ResultFor(playerID string) (GameResult, bool) {
	for _, r := range s.Results {
		if r.PlayerID == playerID {
			return r, true
		}
	}
	return GameResult{}, false
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	GameID   string
	PlayerID string
	Limit    int
	Offset   int
}
