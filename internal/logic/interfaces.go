package logic

import (
	"context"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// GameStore persists game definitions.
type GameStore interface {
	CreateGame(ctx context.Context, g *models.GameDefinition) error
	UpdateGame(ctx context.Context, g *models.GameDefinition) error
	GetGame(ctx context.Context, id string) (*models.GameDefinition, error)
	GetGameBySlug(ctx context.Context, slug string) (*models.GameDefinition, error)
	ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error)
}

// PlayerStore persists players. DeletePlayer also anonymizes the player's
// session results and removes their stats and badges.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	UpdatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []string) ([]models.Player, error)
	ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
}

// SessionStore is the authoritative session history.
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.GameSession) error
	UpdateSession(ctx context.Context, s *models.GameSession) error
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (*models.GameSession, error)
	ListSessions(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error)
	// ListSessionsForPlayer returns every session with a result for playerID, playedAt descending.
	ListSessionsForPlayer(ctx context.Context, playerID string) ([]models.GameSession, error)
	// ListParticipantIDs returns the distinct non-empty player ids across all sessions.
	ListParticipantIDs(ctx context.Context) ([]string, error)
}

// StatsStore holds the materialized PlayerStats documents.
type StatsStore interface {
	UpsertPlayerStats(ctx context.Context, s *models.PlayerStats) error
	DeletePlayerStats(ctx context.Context, playerID string) error
	GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error)
	ListTopPlayerStats(ctx context.Context, limit int) ([]models.PlayerStats, error)
	ListPlayerStatsForGame(ctx context.Context, gameID string) ([]models.PlayerStats, error)
}

type BadgeStore interface {
	// AwardBadges inserts the codes not yet held by playerID and returns the newly inserted ones.
	AwardBadges(ctx context.Context, playerID string, codes []string, at time.Time) ([]string, error)
	ListPlayerBadges(ctx context.Context, playerID string) ([]models.PlayerBadge, error)
}

type GameNightStore interface {
	CreateGameNight(ctx context.Context, n *models.GameNight) error
	UpdateGameNight(ctx context.Context, n *models.GameNight) error
	GetGameNight(ctx context.Context, id string) (*models.GameNight, error)
	ListGameNightsBetween(ctx context.Context, from, to time.Time, limit int) ([]models.GameNight, error)
	UpsertRSVP(ctx context.Context, nightID string, rsvp models.RSVP) error
	MarkReminded(ctx context.Context, id string, at time.Time) error
}

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context, includeResolved bool) ([]models.Feedback, error)
	ResolveFeedback(ctx context.Context, id string, at time.Time) error
}

// Cache is the shared cache + pub/sub used for leaderboards and notifications.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Version returns the current leaderboard generation; Bump invalidates every cached board.
	Version(ctx context.Context) (int64, error)
	Bump(ctx context.Context) error
	Publish(ctx context.Context, channel string, message []byte) error
}

// ActivityLog is the append-only analytics sink for session lifecycle events.
type ActivityLog interface {
	RecordSessionActivity(ctx context.Context, a models.SessionActivity) error
	DailyActivity(ctx context.Context, days int) ([]models.ActivityDay, error)
	GamePopularity(ctx context.Context, limit int) ([]models.GamePopularity, error)
}

// RecalcQueue accepts fire-and-forget stats recalculation requests.
type RecalcQueue interface {
	Enqueue(playerIDs ...string) bool
}

// Clock lets tests pin time.
type Clock func() time.Time
