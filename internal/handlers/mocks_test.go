package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

// MockGameService
type MockGameService struct {
	CreateGameFunc func(ctx context.Context, req models.CreateGameRequest) (*models.GameDefinition, error)
	UpdateGameFunc func(ctx context.Context, id string, req models.UpdateGameRequest) (*models.GameDefinition, error)
	GetGameFunc    func(ctx context.Context, idOrSlug string) (*models.GameDefinition, error)
	ListGamesFunc  func(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error)
	Deactivated    []string
}

func (m *MockGameService) CreateGame(ctx context.Context, req models.CreateGameRequest) (*models.GameDefinition, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(ctx, req)
	}
	return &models.GameDefinition{ID: "g-new", Name: req.Name, ScoringMode: req.ScoringMode}, nil
}

func (m *MockGameService) UpdateGame(ctx context.Context, id string, req models.UpdateGameRequest) (*models.GameDefinition, error) {
	if m.UpdateGameFunc != nil {
		return m.UpdateGameFunc(ctx, id, req)
	}
	return &models.GameDefinition{ID: id}, nil
}

func (m *MockGameService) DeactivateGame(ctx context.Context, id string) error {
	m.Deactivated = append(m.Deactivated, id)
	return nil
}

func (m *MockGameService) GetGame(ctx context.Context, idOrSlug string) (*models.GameDefinition, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(ctx, idOrSlug)
	}
	return nil, logic.ErrNotFound
}

func (m *MockGameService) ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx, includeInactive)
	}
	return []models.GameDefinition{}, nil
}

// MockPlayerService
type MockPlayerService struct {
	GetPlayerFunc    func(ctx context.Context, id string) (*models.Player, error)
	CreatePlayerFunc func(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockPlayerService) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error) {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(ctx, req)
	}
	return &models.Player{ID: "p-new", Name: req.Name, IsActive: true}, nil
}

func (m *MockPlayerService) UpdatePlayer(ctx context.Context, id string, req models.UpdatePlayerRequest) (*models.Player, error) {
	return &models.Player{ID: id}, nil
}

func (m *MockPlayerService) ArchivePlayer(ctx context.Context, id string) (*models.Player, error) {
	return &models.Player{ID: id, IsActive: false}, nil
}

func (m *MockPlayerService) RestorePlayer(ctx context.Context, id string) (*models.Player, error) {
	return &models.Player{ID: id, IsActive: true}, nil
}

func (m *MockPlayerService) DeletePlayer(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockPlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return nil, logic.ErrNotFound
}

func (m *MockPlayerService) ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error) {
	return []models.Player{}, nil
}

// MockSessionService
type MockSessionService struct {
	RecordFunc  func(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error)
	PreviewFunc func(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error)
	ListFunc    func(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error)
	LastFilter  models.SessionFilter
}

func (m *MockSessionService) RecordSession(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, req)
	}
	return &models.GameSession{ID: "s-new", GameID: req.GameID}, nil
}

func (m *MockSessionService) PreviewScores(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, req)
	}
	return &models.GameSession{GameID: req.GameID}, nil
}

func (m *MockSessionService) UpdateSession(ctx context.Context, id string, req models.UpdateSessionRequest) (*models.GameSession, error) {
	return &models.GameSession{ID: id}, nil
}

func (m *MockSessionService) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (m *MockSessionService) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	return nil, logic.ErrNotFound
}

func (m *MockSessionService) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error) {
	m.LastFilter = f
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return []models.GameSession{}, nil
}

// MockStatsService
type MockStatsService struct {
	GetFunc     func(ctx context.Context, playerID string) (*models.PlayerStats, error)
	Summary     *models.RecalcSummary
	RecalcCalls int
}

func (m *MockStatsService) GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, playerID)
	}
	return nil, logic.ErrNotFound
}

func (m *MockStatsService) RecalculateAllStats(ctx context.Context) (*models.RecalcSummary, error) {
	m.RecalcCalls++
	return m.Summary, nil
}

// MockLeaderboardService
type MockLeaderboardService struct {
	OverallLimit    int
	GameID          string
	GamePlayerCount *int
}

func (m *MockLeaderboardService) GetOverallLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error) {
	m.OverallLimit = limit
	return &models.Leaderboard{Entries: []models.LeaderboardEntry{{Rank: 1, PlayerID: "p1", PlayerName: "Alice", TotalPoints: 42}}}, nil
}

func (m *MockLeaderboardService) GetGameLeaderboard(ctx context.Context, gameID string, playerCount *int, limit int) (*models.Leaderboard, error) {
	m.GameID = gameID
	m.GamePlayerCount = playerCount
	if playerCount != nil && *playerCount < 1 {
		return nil, &logic.ValidationError{Message: "playerCount must be at least 1"}
	}
	return &models.Leaderboard{GameID: gameID, PlayerCount: playerCount, Entries: []models.LeaderboardEntry{}}, nil
}

// MockBadgeService
type MockBadgeService struct{}

func (m *MockBadgeService) GetPlayerBadges(ctx context.Context, playerID string) ([]models.PlayerBadge, error) {
	return []models.PlayerBadge{{PlayerID: playerID, BadgeCode: "FIRST_GAME"}}, nil
}

// MockGameNightService
type MockGameNightService struct {
	RSVPFunc func(ctx context.Context, nightID string, req models.RSVPRequest) (*models.GameNight, error)
}

func (m *MockGameNightService) ScheduleGameNight(ctx context.Context, req models.ScheduleGameNightRequest) (*models.GameNight, error) {
	return &models.GameNight{ID: "n-new", Title: req.Title, ScheduledAt: req.ScheduledAt}, nil
}

func (m *MockGameNightService) UpdateGameNight(ctx context.Context, id string, req models.UpdateGameNightRequest) (*models.GameNight, error) {
	return &models.GameNight{ID: id}, nil
}

func (m *MockGameNightService) CancelGameNight(ctx context.Context, id string) error {
	return nil
}

func (m *MockGameNightService) GetGameNight(ctx context.Context, id string) (*models.GameNight, error) {
	return nil, logic.ErrNotFound
}

func (m *MockGameNightService) ListUpcoming(ctx context.Context, limit int) ([]models.GameNight, error) {
	return []models.GameNight{}, nil
}

func (m *MockGameNightService) RSVP(ctx context.Context, nightID string, req models.RSVPRequest) (*models.GameNight, error) {
	if m.RSVPFunc != nil {
		return m.RSVPFunc(ctx, nightID, req)
	}
	return &models.GameNight{ID: nightID}, nil
}

// MockFeedbackService
type MockFeedbackService struct {
	IncludeResolved bool
}

func (m *MockFeedbackService) SubmitFeedback(ctx context.Context, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	return &models.Feedback{ID: "f-new", Category: req.Category, Message: req.Message}, nil
}

func (m *MockFeedbackService) ListFeedback(ctx context.Context, includeResolved bool) ([]models.Feedback, error) {
	m.IncludeResolved = includeResolved
	return []models.Feedback{}, nil
}

func (m *MockFeedbackService) ResolveFeedback(ctx context.Context, id string) error {
	return nil
}

// MockActivity
type MockActivity struct {
	Days  int
	Limit int
}

func (m *MockActivity) DailyActivity(ctx context.Context, days int) ([]models.ActivityDay, error) {
	m.Days = days
	return []models.ActivityDay{}, nil
}

func (m *MockActivity) GamePopularity(ctx context.Context, limit int) ([]models.GamePopularity, error) {
	m.Limit = limit
	return []models.GamePopularity{}, nil
}

// MockPostgres
type MockPostgres struct {
	PingErr  error
	Executed []string
}

func (m *MockPostgres) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockPostgres) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Executed = append(m.Executed, sql)
	return pgconn.CommandTag{}, nil
}

// MockRedis
type MockRedis struct {
	PingErr error
}

func (m *MockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.PingErr)
}

type MockQueue struct{ Depth int }

func (m *MockQueue) QueueDepth() int { return m.Depth }
