package models

import "time"

// DeletedPlayerName replaces a hard-deleted player's name in session history.
const DeletedPlayerName = "[Deleted Player]"

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlayerProfile bundles everything the profile page shows for one player.
// Stats is nil until the player has recorded a session.
type PlayerProfile struct {
	Player         *Player       `json:"player"`
	Stats          *PlayerStats  `json:"stats"`
	Badges         []PlayerBadge `json:"badges"`
	RecentSessions []GameSession `json:"recentSessions"`
}
