package models

import "time"

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

func (s RSVPStatus) Valid() bool {
	return s == RSVPGoing || s == RSVPMaybe || s == RSVPDeclined
}

type GameNight struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Location    string     `json:"location,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Cancelled   bool       `json:"cancelled"`
	RemindedAt  *time.Time `json:"remindedAt,omitempty"`
	RSVPs       []RSVP     `json:"rsvps"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type RSVP struct {
	PlayerID    string     `json:"playerId"`
	PlayerName  string     `json:"playerName"`
	Status      RSVPStatus `json:"status"`
	RespondedAt time.Time  `json:"respondedAt"`
}

// GameNightReminder is published when a game night is about to start.
type GameNightReminder struct {
	GameNightID string    `json:"gameNightId"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Location    string    `json:"location,omitempty"`
	Going       []string  `json:"going"`
}
