package handlers

import (
	"context"
	"reflect"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// RecalcQueue exposes the recalculation backlog for readiness checks.
type RecalcQueue interface {
	QueueDepth() int
}

// PostgresDB is the part of *pgxpool.Pool the handlers touch directly.
type PostgresDB interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Config struct {
	Queue      RecalcQueue
	Postgres   PostgresDB
	ClickHouse driver.Conn // nil when analytics are disabled
	Redis      RedisPinger
	Logger     *zap.Logger

	AdminToken    string
	MigrationsDir string

	// Services
	Games       GameService
	Players     PlayerService
	Sessions    SessionService
	Stats       StatsService
	Leaderboard LeaderboardService
	Badges      BadgeService
	GameNights  GameNightService
	Feedback    FeedbackService
	Activity    ActivityReader
}

type Handler struct {
	queue      RecalcQueue
	pg         PostgresDB
	ch         driver.Conn
	redis      RedisPinger
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	adminHash  [32]byte
	migrations string

	games       GameService
	players     PlayerService
	sessions    SessionService
	stats       StatsService
	leaderboard LeaderboardService
	badges      BadgeService
	gameNights  GameNightService
	feedback    FeedbackService
	activity    ActivityReader
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	return &Handler{
		queue:       cfg.Queue,
		pg:          cfg.Postgres,
		ch:          cfg.ClickHouse,
		redis:       cfg.Redis,
		logger:      cfg.Logger.Sugar(),
		validator:   newValidator(),
		adminHash:   hashToken(cfg.AdminToken),
		migrations:  cfg.MigrationsDir,
		games:       cfg.Games,
		players:     cfg.Players,
		sessions:    cfg.Sessions,
		stats:       cfg.Stats,
		leaderboard: cfg.Leaderboard,
		badges:      cfg.Badges,
		gameNights:  cfg.GameNights,
		feedback:    cfg.Feedback,
		activity:    cfg.Activity,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
