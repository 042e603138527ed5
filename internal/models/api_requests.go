package models

import "time"

type CreateGameRequest struct {
	Name            string      `json:"name" validate:"required,max=120"`
	ScoringMode     ScoringMode `json:"scoringMode" validate:"required,oneof=pointing winner-takes-all"`
	PointsPerPlayer int         `json:"pointsPerPlayer" validate:"omitempty,gt=0,lte=1000"`
}

type UpdateGameRequest struct {
	Name            *string      `json:"name" validate:"omitempty,min=1,max=120"`
	ScoringMode     *ScoringMode `json:"scoringMode" validate:"omitempty,oneof=pointing winner-takes-all"`
	PointsPerPlayer *int         `json:"pointsPerPlayer" validate:"omitempty,gt=0,lte=1000"`
	IsActive        *bool        `json:"isActive"`
}

type CreatePlayerRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	Email     string `json:"email" validate:"omitempty,email"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
	Bio       string `json:"bio" validate:"max=500"`
}

type UpdatePlayerRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=80"`
	Email     *string `json:"email" validate:"omitempty,email"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}

// ResultInput is one submitted result. Rank and Score accept numbers or
// numeric strings because the recording form posts everything as text.
type ResultInput struct {
	PlayerID string   `json:"playerId" validate:"required"`
	Rank     FlexInt  `json:"rank" validate:"gte=0"`
	Score    *FlexInt `json:"score"`
}

type RecordSessionRequest struct {
	GameID      string        `json:"gameId" validate:"required"`
	PlayedAt    *time.Time    `json:"playedAt"`
	Results     []ResultInput `json:"results" validate:"required,min=1,max=100,dive"`
	Notes       string        `json:"notes" validate:"max=1000"`
	GameNightID string        `json:"gameNightId"`
}

type UpdateSessionRequest struct {
	PlayedAt *time.Time    `json:"playedAt"`
	Results  []ResultInput `json:"results" validate:"omitempty,min=1,max=100,dive"`
	Notes    *string       `json:"notes" validate:"omitempty,max=1000"`
}

type ValidateRankingsRequest struct {
	Ranks []int `json:"ranks" validate:"required"`
}

type ScheduleGameNightRequest struct {
	Title       string    `json:"title" validate:"required,max=120"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Location    string    `json:"location" validate:"max=200"`
	Notes       string    `json:"notes" validate:"max=1000"`
}

type UpdateGameNightRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=120"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Notes       *string    `json:"notes" validate:"omitempty,max=1000"`
}

type RSVPRequest struct {
	PlayerID string     `json:"playerId" validate:"required"`
	Status   RSVPStatus `json:"status" validate:"required,oneof=going maybe declined"`
}

type SubmitFeedbackRequest struct {
	Category FeedbackCategory `json:"category" validate:"required,oneof=bug idea other"`
	Message  string           `json:"message" validate:"required,max=4000"`
	Contact  string           `json:"contact" validate:"max=200"`
}
