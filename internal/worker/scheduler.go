package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// FullRecalculator rebuilds every player's stats.
type FullRecalculator interface {
	RecalculateAllStats(ctx context.Context) (*models.RecalcSummary, error)
}

// ReminderSender publishes reminders for game nights starting within lead.
type ReminderSender interface {
	SendReminders(ctx context.Context, lead time.Duration) (int, error)
}

type SchedulerConfig struct {
	// RecalcSchedule is a five-field cron expression evaluated in UTC.
	RecalcSchedule   string
	ReminderInterval time.Duration
	ReminderLeadTime time.Duration
	Stats            FullRecalculator
	Reminders        ReminderSender
	Logger           *zap.Logger
}

// Scheduler owns the periodic background jobs.
type Scheduler struct {
	cfg    SchedulerConfig
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.SugaredLogger
}

func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = 15 * time.Minute
	}
	if cfg.ReminderLeadTime <= 0 {
		cfg.ReminderLeadTime = 24 * time.Hour
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{cfg: cfg, sched: sched, logger: cfg.Logger.Sugar()}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if cfg.Stats != nil && cfg.RecalcSchedule != "" {
		_, err := sched.NewJob(
			gocron.CronJob(cfg.RecalcSchedule, false),
			gocron.NewTask(func() { s.recalculateAll(s.ctx) }),
			gocron.WithName("recalculate-all-stats"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.cancel()
			return nil, fmt.Errorf("schedule stats recalculation %q: %w", cfg.RecalcSchedule, err)
		}
	}

	if cfg.Reminders != nil {
		_, err := sched.NewJob(
			gocron.DurationJob(cfg.ReminderInterval),
			gocron.NewTask(func() { s.sendReminders(s.ctx) }),
			gocron.WithName("game-night-reminders"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.cancel()
			return nil, fmt.Errorf("schedule reminders: %w", err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Infow("Scheduler started",
		"recalcSchedule", s.cfg.RecalcSchedule,
		"reminderInterval", s.cfg.ReminderInterval,
		"reminderLeadTime", s.cfg.ReminderLeadTime,
	)
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.cancel()
	return s.sched.Shutdown()
}

func (s *Scheduler) recalculateAll(ctx context.Context) {
	start := time.Now()
	summary, err := s.cfg.Stats.RecalculateAllStats(ctx)
	if err != nil {
		s.logger.Errorw("Scheduled stats recalculation failed", "error", err)
		return
	}
	s.logger.Infow("Scheduled stats recalculation finished",
		"players", summary.Players,
		"updated", summary.Updated,
		"removed", summary.Removed,
		"failed", len(summary.Failed),
		"duration", time.Since(start),
	)
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	sent, err := s.cfg.Reminders.SendReminders(ctx, s.cfg.ReminderLeadTime)
	if err != nil {
		s.logger.Errorw("Game night reminders failed", "sent", sent, "error", err)
		return
	}
	if sent > 0 {
		s.logger.Infow("Game night reminders sent", "count", sent)
	}
}
