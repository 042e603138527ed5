package handlers

import (
	"context"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// The interfaces below are satisfied by the services in internal/logic.

type GameService interface {
	CreateGame(ctx context.Context, req models.CreateGameRequest) (*models.GameDefinition, error)
	UpdateGame(ctx context.Context, id string, req models.UpdateGameRequest) (*models.GameDefinition, error)
	DeactivateGame(ctx context.Context, id string) error
	GetGame(ctx context.Context, idOrSlug string) (*models.GameDefinition, error)
	ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error)
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id string, req models.UpdatePlayerRequest) (*models.Player, error)
	ArchivePlayer(ctx context.Context, id string) (*models.Player, error)
	RestorePlayer(ctx context.Context, id string) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error)
}

type SessionService interface {
	RecordSession(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error)
	PreviewScores(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error)
	UpdateSession(ctx context.Context, id string, req models.UpdateSessionRequest) (*models.GameSession, error)
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (*models.GameSession, error)
	ListSessions(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error)
}

type StatsService interface {
	GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error)
	RecalculateAllStats(ctx context.Context) (*models.RecalcSummary, error)
}

type LeaderboardService interface {
	GetOverallLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error)
	GetGameLeaderboard(ctx context.Context, gameID string, playerCount *int, limit int) (*models.Leaderboard, error)
}

type BadgeService interface {
	GetPlayerBadges(ctx context.Context, playerID string) ([]models.PlayerBadge, error)
}

type GameNightService interface {
	ScheduleGameNight(ctx context.Context, req models.ScheduleGameNightRequest) (*models.GameNight, error)
	UpdateGameNight(ctx context.Context, id string, req models.UpdateGameNightRequest) (*models.GameNight, error)
	CancelGameNight(ctx context.Context, id string) error
	GetGameNight(ctx context.Context, id string) (*models.GameNight, error)
	ListUpcoming(ctx context.Context, limit int) ([]models.GameNight, error)
	RSVP(ctx context.Context, nightID string, req models.RSVPRequest) (*models.GameNight, error)
}

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, req models.SubmitFeedbackRequest) (*models.Feedback, error)
	ListFeedback(ctx context.Context, includeResolved bool) ([]models.Feedback, error)
	ResolveFeedback(ctx context.Context, id string) error
}

type ActivityReader interface {
	DailyActivity(ctx context.Context, days int) ([]models.ActivityDay, error)
	GamePopularity(ctx context.Context, limit int) ([]models.GamePopularity, error)
}
