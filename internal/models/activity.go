package models

import "time"

type SessionAction string

const (
	ActionSessionCreated SessionAction = "created"
	ActionSessionEdited  SessionAction = "edited"
	ActionSessionDeleted SessionAction = "deleted"
)

// SessionActivity is one row of the append-only analytics log.
type SessionActivity struct {
	Timestamp       time.Time     `json:"timestamp"`
	SessionID       string        `json:"sessionId"`
	GameID          string        `json:"gameId"`
	GameName        string        `json:"gameName"`
	Action          SessionAction `json:"action"`
	PlayerCount     int           `json:"playerCount"`
	TotalPointsPool int           `json:"totalPointsPool"`
	PlayedAt        time.Time     `json:"playedAt"`
}

type ActivityDay struct {
	Day      time.Time `json:"day"`
	Sessions uint64    `json:"sessions"`
	Players  uint64    `json:"players"`
}

type GamePopularity struct {
	GameID   string `json:"gameId"`
	GameName string `json:"gameName"`
	Sessions uint64 `json:"sessions"`
}
