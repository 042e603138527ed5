package models

import "time"

// ScoringMode selects how a session's points pool is distributed.
type ScoringMode string

const (
	ScoringPointing       ScoringMode = "pointing"
	ScoringWinnerTakesAll ScoringMode = "winner-takes-all"
)

// Valid reports whether m is a known scoring mode.
func (m ScoringMode) Valid() bool {
	return m == ScoringPointing || m == ScoringWinnerTakesAll
}

// DefaultPointsPerPlayer is used when a game is created without an explicit value.
func (m ScoringMode) DefaultPointsPerPlayer() int {
	if m == ScoringWinnerTakesAll {
		return 3
	}
	return 5
}

// GameDefinition is a game's scoring configuration. Games are never hard-deleted.
type GameDefinition struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	ScoringMode     ScoringMode `json:"scoringMode"`
	PointsPerPlayer int         `json:"pointsPerPlayer"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
