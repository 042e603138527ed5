// Command api serves the score tracker HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/config"
	"github.com/tabletop-league/scorekeeper/internal/handlers"
	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/store"
	"github.com/tabletop-league/scorekeeper/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Sugar().Fatalw("Server exited with error", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pgPool, err := store.Connect(connectCtx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer pgPool.Close()
	sugar.Infow("Connected to PostgreSQL")

	redisClient, err := store.ConnectRedis(connectCtx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	sugar.Infow("Connected to Redis")

	var activity logic.ActivityLog = store.NopActivityLog{}
	handlerCfg := handlers.Config{}
	if cfg.ClickHouseURL != "" {
		chConn, err := store.OpenClickHouse(connectCtx, cfg.ClickHouseURL)
		if err != nil {
			return err
		}
		defer chConn.Close()
		activity = store.NewClickHouseActivityLog(chConn)
		handlerCfg.ClickHouse = chConn
		sugar.Infow("Connected to ClickHouse")
	} else {
		sugar.Infow("CLICKHOUSE_URL not set, session analytics disabled")
	}

	db := store.NewPostgres(pgPool)
	cache := store.NewRedisCache(redisClient, "scorekeeper:")

	games, err := logic.NewGameService(db, cfg.GameCacheSize, logger)
	if err != nil {
		return fmt.Errorf("game service: %w", err)
	}
	players := logic.NewPlayerService(db, cache, logger)
	stats := logic.NewStatsService(logic.StatsServiceConfig{
		Sessions:    db,
		Stats:       db,
		Cache:       cache,
		Logger:      logger,
		Concurrency: cfg.WorkerCount,
	})
	badges := logic.NewBadgeService(db, cache, logger)
	leaderboard := logic.NewLeaderboardService(db, cache, cfg.LeaderboardCacheTTL, logger)
	gameNights := logic.NewGameNightService(db, db, cache, logger)
	feedback := logic.NewFeedbackService(db, logger)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		MaxRetries:    cfg.RecalcMaxRetries,
		RetryBackoff:  cfg.RecalcRetryBackoff,
		Stats:         stats,
		Badges:        badges,
		Logger:        logger,
	})
	// The pool outlives ctx so Stop can drain queued work after a signal.
	pool.Start(context.Background())

	sessions := logic.NewSessionService(logic.SessionServiceConfig{
		Sessions: db,
		Games:    games,
		Players:  db,
		Nights:   db,
		Queue:    pool,
		Activity: activity,
		Scorer:   logic.NewScorer(cfg.TiePolicy),
		Logger:   logger,
	})

	scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
		RecalcSchedule:   cfg.RecalcAllSchedule,
		ReminderInterval: cfg.ReminderInterval,
		ReminderLeadTime: cfg.ReminderLeadTime,
		Stats:            stats,
		Reminders:        gameNights,
		Logger:           logger,
	})
	if err != nil {
		pool.Stop()
		return err
	}
	scheduler.Start()

	handlerCfg.Queue = pool
	handlerCfg.Postgres = pgPool
	handlerCfg.Redis = redisClient
	handlerCfg.Logger = logger
	handlerCfg.AdminToken = cfg.AdminToken
	handlerCfg.MigrationsDir = cfg.MigrationsDir
	handlerCfg.Games = games
	handlerCfg.Players = players
	handlerCfg.Sessions = sessions
	handlerCfg.Stats = stats
	handlerCfg.Leaderboard = leaderboard
	handlerCfg.Badges = badges
	handlerCfg.GameNights = gameNights
	handlerCfg.Feedback = feedback
	handlerCfg.Activity = activity
	h := handlers.New(handlerCfg)

	limiter := handlers.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(h, handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			Limiter:        limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("HTTP server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		sugar.Infow("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			sugar.Errorw("HTTP server failed", "error", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("HTTP shutdown incomplete", "error", err)
	}
	if err := scheduler.Stop(); err != nil {
		sugar.Warnw("Scheduler shutdown incomplete", "error", err)
	}
	pool.Stop()

	sugar.Infow("Shutdown complete")
	return nil
}
