// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/logic"
)

type Config struct {
	Port           int
	Env            string
	AllowedOrigins []string

	// Stores. ClickHouseURL is optional; analytics are disabled when empty.
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string
	MigrationsDir string

	AdminToken string

	// Recalculation pool
	WorkerCount        int
	QueueSize          int
	BatchSize          int
	FlushInterval      time.Duration
	RecalcMaxRetries   int
	RecalcRetryBackoff time.Duration

	// Background jobs
	RecalcAllSchedule string
	ReminderInterval  time.Duration
	ReminderLeadTime  time.Duration

	LeaderboardCacheTTL time.Duration
	GameCacheSize       int

	TiePolicy logic.TiePolicy

	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load builds a Config from the environment. Every missing required
// variable is reported in one error. Malformed numbers and durations fall
// back to their defaults.
func Load() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		Port:           env.int("PORT", 8080),
		Env:            env.str("ENV", "development"),
		AllowedOrigins: env.list("ALLOWED_ORIGINS", "http://localhost:3000"),

		PostgresURL:   env.required("POSTGRES_URL"),
		ClickHouseURL: env.str("CLICKHOUSE_URL", ""),
		RedisURL:      env.required("REDIS_URL"),
		MigrationsDir: env.str("MIGRATIONS_DIR", "migrations"),

		AdminToken: env.required("ADMIN_TOKEN"),

		WorkerCount:        env.int("WORKER_COUNT", 4),
		QueueSize:          env.int("QUEUE_SIZE", 1000),
		BatchSize:          env.int("BATCH_SIZE", 50),
		FlushInterval:      env.duration("FLUSH_INTERVAL", 500*time.Millisecond),
		RecalcMaxRetries:   env.int("RECALC_MAX_RETRIES", 3),
		RecalcRetryBackoff: env.duration("RECALC_RETRY_BACKOFF", 2*time.Second),

		RecalcAllSchedule: env.str("RECALC_ALL_SCHEDULE", "0 4 * * *"),
		ReminderInterval:  env.duration("REMINDER_INTERVAL", 15*time.Minute),
		ReminderLeadTime:  env.duration("REMINDER_LEAD_TIME", 24*time.Hour),

		LeaderboardCacheTTL: env.duration("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		GameCacheSize:       env.int("GAME_CACHE_SIZE", 256),

		RateLimitPerSecond: env.int("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     env.int("RATE_LIMIT_BURST", 40),
	}

	policy, err := logic.ParseTiePolicy(env.str("SCORING_TIE_POLICY", string(logic.TieSplit)))
	if err != nil {
		env.errs = append(env.errs, fmt.Errorf("SCORING_TIE_POLICY: %w", err))
	}
	cfg.TiePolicy = policy

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// envReader accumulates problems so Load can report them together.
type envReader struct {
	errs []error
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) required(key string) string {
	v := e.str(key, "")
	if v == "" {
		e.errs = append(e.errs, fmt.Errorf("missing required environment variable: %s", key))
	}
	return v
}

func (e *envReader) int(key string, fallback int) int {
	if i, err := strconv.Atoi(e.str(key, "")); err == nil {
		return i
	}
	return fallback
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key, "")); err == nil {
		return d
	}
	return fallback
}

func (e *envReader) list(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(e.str(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
