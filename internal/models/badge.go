package models

import "time"

type BadgeTier string

const (
	TierBronze BadgeTier = "bronze"
	TierSilver BadgeTier = "silver"
	TierGold   BadgeTier = "gold"
)

// Badge is a catalogue entry. Badges are awarded from PlayerStats.
type Badge struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Tier        BadgeTier `json:"tier"`
}

// PlayerBadge is an earned badge. Earned badges are kept even if stats later shrink.
type PlayerBadge struct {
	PlayerID  string    `json:"playerId"`
	BadgeCode string    `json:"badgeCode"`
	AwardedAt time.Time `json:"awardedAt"`
	Badge     *Badge    `json:"badge,omitempty"`
}
