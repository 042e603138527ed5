// Package worker runs player stats recalculation off the request path.
// Session writes enqueue player ids; workers batch them, drop duplicates,
// rebuild each player's stats and award any newly earned badges.
package worker

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// Prometheus metrics
var (
	recalcEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorekeeper_recalc_enqueued_total",
		Help: "Total number of player recalculations enqueued",
	})

	recalcProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorekeeper_recalc_processed_total",
		Help: "Total number of player recalculations completed",
	})

	recalcFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorekeeper_recalc_failed_total",
		Help: "Total number of player recalculation attempts that failed",
	})

	recalcRetried = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorekeeper_recalc_retried_total",
		Help: "Total number of player recalculations scheduled for retry",
	})

	recalcShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorekeeper_recalc_load_shed_total",
		Help: "Total number of recalculations dropped because the queue was full or stopped",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scorekeeper_recalc_queue_depth",
		Help: "Current depth of the recalculation queue",
	})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scorekeeper_recalc_duration_seconds",
		Help:    "Duration of a single player recalculation",
		Buckets: prometheus.DefBuckets,
	})
)

// Recalculator rebuilds one player's stats. A nil result means the player
// no longer has any sessions.
type Recalculator interface {
	RecalculatePlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error)
}

// BadgeAwarder grants badges for freshly computed stats.
type BadgeAwarder interface {
	AwardForStats(ctx context.Context, stats *models.PlayerStats) ([]string, error)
}

// Job is one pending recalculation.
type Job struct {
	PlayerID string
	Attempt  int
	Enqueued time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	Stats         Recalculator
	Badges        BadgeAwarder
	Logger        *zap.Logger
}

// Pool manages the recalculation workers.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
	timers  map[*time.Timer]struct{}
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 500 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Jobs may be enqueued before Start; they run once the workers are up.
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.Logger.Sugar(),
		timers:   make(map[*time.Timer]struct{}),
	}
}

// Start launches the worker goroutines. Recalculations run under ctx.
func (p *Pool) Start(ctx context.Context) {
	p.cancel()
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
		"maxRetries", p.config.MaxRetries,
	)
}

// Stop refuses new work, drains what is queued and waits for the workers.
// Pending retries are dropped; the nightly full recalculation repairs them.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for t := range p.timers {
		t.Stop()
	}
	dropped := len(p.timers)
	p.timers = nil
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Infow("Worker pool stopped", "droppedRetries", dropped)
}

// Enqueue schedules a recalculation for each player id without blocking.
// It returns false if any id was shed because the queue was full.
func (p *Pool) Enqueue(playerIDs ...string) bool {
	ok := true
	now := time.Now()
	for _, id := range playerIDs {
		if id == "" {
			continue
		}
		if !p.push(Job{PlayerID: id, Enqueued: now}) {
			ok = false
		}
	}
	return ok
}

func (p *Pool) push(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		recalcShed.Inc()
		p.logger.Warnw("Worker pool stopped, dropping recalculation", "player", job.PlayerID)
		return false
	}

	select {
	case p.jobQueue <- job:
		recalcEnqueued.Inc()
		return true
	default:
		recalcShed.Inc()
		p.logger.Warnw("Recalculation queue full, dropping job",
			"player", job.PlayerID,
			"queueSize", p.config.QueueSize,
		)
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker collects jobs into de-duplicated batches.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make(map[string]Job, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		p.processBatch(id, batch)
		clear(batch)
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			if prev, dup := batch[job.PlayerID]; !dup || job.Attempt < prev.Attempt {
				batch[job.PlayerID] = job
			}
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (p *Pool) processBatch(worker int, batch map[string]Job) {
	ids := make([]string, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start := time.Now()
	failed := 0
	for _, id := range ids {
		if !p.process(batch[id]) {
			failed++
		}
	}

	p.logger.Infow("Recalculation batch processed",
		"worker", worker,
		"players", len(ids),
		"failed", failed,
		"duration", time.Since(start),
	)
}

// process runs one job and reports whether it succeeded.
func (p *Pool) process(job Job) bool {
	ctx := p.ctx
	start := time.Now()
	stats, err := p.config.Stats.RecalculatePlayerStats(ctx, job.PlayerID)
	recalcDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		recalcFailed.Inc()
		p.logger.Errorw("Stats recalculation failed",
			"player", job.PlayerID,
			"attempt", job.Attempt+1,
			"error", err,
		)
		p.retry(job)
		return false
	}
	recalcProcessed.Inc()

	if stats == nil || p.config.Badges == nil {
		return true
	}
	if _, err := p.config.Badges.AwardForStats(ctx, stats); err != nil {
		p.logger.Warnw("Badge evaluation failed", "player", job.PlayerID, "error", err)
	}
	return true
}

// retry re-enqueues the job after an exponential backoff.
func (p *Pool) retry(job Job) {
	if job.Attempt >= p.config.MaxRetries {
		p.logger.Errorw("Stats recalculation retries exhausted",
			"player", job.PlayerID,
			"attempts", job.Attempt+1,
		)
		return
	}

	next := Job{PlayerID: job.PlayerID, Attempt: job.Attempt + 1, Enqueued: time.Now()}
	delay := p.config.RetryBackoff << job.Attempt

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		p.mu.Lock()
		if p.timers != nil {
			delete(p.timers, t)
		}
		p.mu.Unlock()
		if p.push(next) {
			recalcRetried.Inc()
		}
	})
	p.timers[t] = struct{}{}

	p.logger.Infow("Stats recalculation scheduled for retry",
		"player", job.PlayerID,
		"attempt", next.Attempt+1,
		"delay", delay,
	)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
