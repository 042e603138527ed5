package logic

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

const (
	DefaultSessionPageSize = 20
	MaxSessionPageSize     = 100
)

var sessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scorekeeper_session_events_total",
	Help: "Sessions created, edited and deleted",
}, []string{"action"})

// GameLookup resolves a game by id or slug.
type GameLookup interface {
	GetGame(ctx context.Context, idOrSlug string) (*models.GameDefinition, error)
}

// SessionService records game sessions and keeps derived stats moving by
// handing affected players to the recalculation queue.
type SessionService struct {
	sessions SessionStore
	games    GameLookup
	players  PlayerStore
	nights   GameNightStore
	queue    RecalcQueue
	activity ActivityLog
	scorer   *Scorer
	logger   *zap.SugaredLogger
	now      Clock
}

type SessionServiceConfig struct {
	Sessions SessionStore
	Games    GameLookup
	Players  PlayerStore
	// Nights, Queue and Activity are optional.
	Nights   GameNightStore
	Queue    RecalcQueue
	Activity ActivityLog
	Scorer   *Scorer
	Logger   *zap.Logger
	Clock    Clock
}

func NewSessionService(cfg SessionServiceConfig) *SessionService {
	if cfg.Scorer == nil {
		cfg.Scorer = NewScorer(TieSplit)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &SessionService{
		sessions: cfg.Sessions,
		games:    cfg.Games,
		players:  cfg.Players,
		nights:   cfg.Nights,
		queue:    cfg.Queue,
		activity: cfg.Activity,
		scorer:   cfg.Scorer,
		logger:   cfg.Logger.Sugar(),
		now:      cfg.Clock,
	}
}

// RecordSession validates, scores and stores a finished game. Stats for the
// participants are recalculated asynchronously.
func (s *SessionService) RecordSession(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error) {
	session, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session.ID = uuid.NewString()
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	sessionEvents.WithLabelValues(string(models.ActionSessionCreated)).Inc()
	s.logger.Infow("Session recorded",
		"session", session.ID,
		"game", session.GameID,
		"players", session.PlayerCount,
		"pool", session.TotalPointsPool,
	)

	s.recordActivity(ctx, session, models.ActionSessionCreated)
	s.enqueue(session.PlayerIDs()...)
	return session, nil
}

// PreviewScores runs the same validation and scoring as RecordSession
// without persisting anything.
func (s *SessionService) PreviewScores(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error) {
	return s.prepare(ctx, req)
}

func (s *SessionService) prepare(ctx context.Context, req models.RecordSessionRequest) (*models.GameSession, error) {
	game, err := s.games.GetGame(ctx, strings.TrimSpace(req.GameID))
	if err != nil {
		if isNotFound(err) {
			return nil, validationErrorf("unknown game %q", req.GameID)
		}
		return nil, fmt.Errorf("load game %s: %w", req.GameID, err)
	}
	if !game.IsActive {
		return nil, validationErrorf("game %q is not active", game.Name)
	}

	if req.GameNightID != "" && s.nights != nil {
		if _, err := s.nights.GetGameNight(ctx, req.GameNightID); err != nil {
			if isNotFound(err) {
				return nil, validationErrorf("unknown game night %q", req.GameNightID)
			}
			return nil, fmt.Errorf("load game night %s: %w", req.GameNightID, err)
		}
	}

	results, err := s.resolveResults(ctx, req.Results, nil)
	if err != nil {
		return nil, err
	}
	scored, err := s.score(game.ScoringMode, game.PointsPerPlayer, results, nil)
	if err != nil {
		return nil, err
	}

	playedAt := s.now().UTC()
	if req.PlayedAt != nil && !req.PlayedAt.IsZero() {
		playedAt = req.PlayedAt.UTC()
	}

	return &models.GameSession{
		GameID:          game.ID,
		GameName:        game.Name,
		ScoringMode:     game.ScoringMode,
		PointsPerPlayer: game.PointsPerPlayer,
		PlayerCount:     len(scored),
		PlayedAt:        playedAt,
		Results:         scored,
		TotalPointsPool: GetTotalPointsPool(len(scored), game.PointsPerPlayer),
		Notes:           strings.TrimSpace(req.Notes),
		GameNightID:     req.GameNightID,
	}, nil
}

// UpdateSession edits playedAt, notes and results. Result edits are rescored
// with the session's own scoring snapshot, not the game's current settings.
func (s *SessionService) UpdateSession(ctx context.Context, id string, req models.UpdateSessionRequest) (*models.GameSession, error) {
	existing, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	before := existing.PlayerIDs()

	updated := *existing
	updated.Results = slices.Clone(existing.Results)
	if req.PlayedAt != nil && !req.PlayedAt.IsZero() {
		updated.PlayedAt = req.PlayedAt.UTC()
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}

	if req.Results != nil {
		allowed := make(map[string]bool, len(before))
		for _, pid := range before {
			allowed[pid] = true
		}
		results, err := s.resolveResults(ctx, req.Results, allowed)
		if err != nil {
			return nil, err
		}
		// Results of deleted players cannot be resubmitted; they are ranked
		// after the submitted ones.
		var removed []models.GameResult
		for _, r := range existing.Results {
			if r.PlayerID == "" {
				removed = append(removed, r)
			}
		}
		scored, err := s.score(existing.ScoringMode, existing.PointsPerPlayer, results, removed)
		if err != nil {
			return nil, err
		}
		updated.Results = scored
		updated.PlayerCount = len(scored)
		updated.TotalPointsPool = GetTotalPointsPool(len(scored), existing.PointsPerPlayer)
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.sessions.UpdateSession(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update session %s: %w", id, err)
	}
	sessionEvents.WithLabelValues(string(models.ActionSessionEdited)).Inc()
	s.logger.Infow("Session updated", "session", id, "players", updated.PlayerCount)

	s.recordActivity(ctx, &updated, models.ActionSessionEdited)
	s.enqueue(union(before, updated.PlayerIDs())...)
	return &updated, nil
}

// DeleteSession removes the session and recalculates every participant.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	existing, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	sessionEvents.WithLabelValues(string(models.ActionSessionDeleted)).Inc()
	s.logger.Infow("Session deleted", "session", id, "game", existing.GameID)

	s.recordActivity(ctx, existing, models.ActionSessionDeleted)
	s.enqueue(existing.PlayerIDs()...)
	return nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	return s.sessions.GetSession(ctx, id)
}

// ListSessions returns sessions newest first.
func (s *SessionService) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultSessionPageSize
	case f.Limit > MaxSessionPageSize:
		f.Limit = MaxSessionPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.sessions.ListSessions(ctx, f)
}

// resolveResults checks the submitted participants against the roster and
// fills in their current names. Archived players are rejected unless they
// are in allowed.
func (s *SessionService) resolveResults(ctx context.Context, inputs []models.ResultInput, allowed map[string]bool) ([]models.GameResult, error) {
	if len(inputs) == 0 {
		return nil, validationErrorf("At least one result is required")
	}

	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		id := strings.TrimSpace(in.PlayerID)
		if id == "" {
			return nil, validationErrorf("every result needs a playerId")
		}
		if seen[id] {
			return nil, validationErrorf("player %q appears more than once", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	players, err := s.players.GetPlayers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	results := make([]models.GameResult, len(inputs))
	for i, in := range inputs {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, validationErrorf("unknown player %q", ids[i])
		}
		if !p.IsActive && !allowed[p.ID] {
			return nil, validationErrorf("player %q is archived", p.Name)
		}
		results[i] = models.GameResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Rank:       in.Rank.Int(),
		}
		if in.Score != nil {
			score := in.Score.Int()
			results[i].Score = &score
		}
	}
	return results, nil
}

// score derives ranks from scores when no ranks were given, validates the
// ranking and computes pointsEarned. trailing results keep their relative
// order but are placed below every ranked result.
func (s *SessionService) score(mode models.ScoringMode, pointsPerPlayer int, results, trailing []models.GameResult) ([]models.GameResult, error) {
	unranked, scored := true, true
	for _, r := range results {
		if r.Rank != 0 {
			unranked = false
		}
		if r.Score == nil {
			scored = false
		}
	}
	if unranked {
		if !scored {
			return nil, validationErrorf("every result needs a rank or a score")
		}
		results = DeriveRanksFromScores(results)
	}

	if v := ValidateRankings(results); !v.Valid {
		return nil, &ValidationError{Message: v.Message}
	}
	if len(trailing) > 0 {
		results = append(slices.Clone(results), rankAfter(results, trailing)...)
	}
	return s.scorer.Score(mode, len(results), pointsPerPlayer, results), nil
}

// rankAfter re-ranks trailing densely below the lowest rank in ranked.
// Entries that shared a rank still share one.
func rankAfter(ranked, trailing []models.GameResult) []models.GameResult {
	last := 0
	for _, r := range ranked {
		last = max(last, r.Rank)
	}

	out := slices.Clone(trailing)
	slices.SortStableFunc(out, func(a, b models.GameResult) int { return a.Rank - b.Rank })

	prev := 0
	for i := range out {
		if i == 0 || out[i].Rank != prev {
			last++
		}
		prev = out[i].Rank
		out[i].Rank = last
		out[i].PointsEarned = 0
	}
	return out
}

func (s *SessionService) recordActivity(ctx context.Context, session *models.GameSession, action models.SessionAction) {
	if s.activity == nil {
		return
	}
	row := models.SessionActivity{
		Timestamp:       s.now().UTC(),
		SessionID:       session.ID,
		GameID:          session.GameID,
		GameName:        session.GameName,
		Action:          action,
		PlayerCount:     session.PlayerCount,
		TotalPointsPool: session.TotalPointsPool,
		PlayedAt:        session.PlayedAt,
	}
	if err := s.activity.RecordSessionActivity(ctx, row); err != nil {
		s.logger.Warnw("Failed to record session activity", "session", session.ID, "action", action, "error", err)
	}
}

func (s *SessionService) enqueue(playerIDs ...string) {
	if s.queue == nil || len(playerIDs) == 0 {
		return
	}
	if !s.queue.Enqueue(playerIDs...) {
		s.logger.Warnw("Recalculation queue full, stats catch up on the next full recalculation",
			"players", playerIDs,
		)
	}
}

func union(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}
