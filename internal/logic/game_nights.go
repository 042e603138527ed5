package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// ChannelGameNightReminders receives a GameNightReminder shortly before a night starts.
const ChannelGameNightReminders = "gamenights:reminders"

const (
	DefaultUpcomingLimit = 10
	// upcomingHorizon bounds ListUpcoming; nights further out are not listed.
	upcomingHorizon = 365 * 24 * time.Hour
)

type GameNightService struct {
	store   GameNightStore
	players PlayerStore
	cache   Cache
	logger  *zap.SugaredLogger
	now     Clock
}

// NewGameNightService wires scheduling. cache may be nil, in which case
// reminders are only logged.
func NewGameNightService(store GameNightStore, players PlayerStore, cache Cache, logger *zap.Logger) *GameNightService {
	return &GameNightService{
		store:   store,
		players: players,
		cache:   cache,
		logger:  logger.Sugar(),
		now:     time.Now,
	}
}

func (s *GameNightService) ScheduleGameNight(ctx context.Context, req models.ScheduleGameNightRequest) (*models.GameNight, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationErrorf("title is required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, validationErrorf("scheduledAt is required")
	}

	now := s.now().UTC()
	n := &models.GameNight{
		ID:          uuid.NewString(),
		Title:       title,
		ScheduledAt: req.ScheduledAt.UTC(),
		Location:    strings.TrimSpace(req.Location),
		Notes:       strings.TrimSpace(req.Notes),
		RSVPs:       []models.RSVP{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateGameNight(ctx, n); err != nil {
		return nil, fmt.Errorf("create game night: %w", err)
	}
	s.logger.Infow("Game night scheduled", "night", n.ID, "at", n.ScheduledAt)
	return n, nil
}

// UpdateGameNight applies the non-nil fields. Moving the date re-arms the reminder.
func (s *GameNightService) UpdateGameNight(ctx context.Context, id string, req models.UpdateGameNightRequest) (*models.GameNight, error) {
	n, err := s.store.GetGameNight(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Cancelled {
		return nil, validationErrorf("game night is cancelled")
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationErrorf("title is required")
		}
		n.Title = title
	}
	if req.ScheduledAt != nil && !req.ScheduledAt.Equal(n.ScheduledAt) {
		n.ScheduledAt = req.ScheduledAt.UTC()
		n.RemindedAt = nil
	}
	if req.Location != nil {
		n.Location = strings.TrimSpace(*req.Location)
	}
	if req.Notes != nil {
		n.Notes = strings.TrimSpace(*req.Notes)
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateGameNight(ctx, n); err != nil {
		return nil, fmt.Errorf("update game night %s: %w", id, err)
	}
	return n, nil
}

func (s *GameNightService) CancelGameNight(ctx context.Context, id string) error {
	n, err := s.store.GetGameNight(ctx, id)
	if err != nil {
		return err
	}
	if n.Cancelled {
		return nil
	}
	n.Cancelled = true
	n.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateGameNight(ctx, n); err != nil {
		return fmt.Errorf("cancel game night %s: %w", id, err)
	}
	s.logger.Infow("Game night cancelled", "night", id)
	return nil
}

func (s *GameNightService) GetGameNight(ctx context.Context, id string) (*models.GameNight, error) {
	return s.store.GetGameNight(ctx, id)
}

// ListUpcoming returns non-cancelled nights from now on, soonest first.
func (s *GameNightService) ListUpcoming(ctx context.Context, limit int) ([]models.GameNight, error) {
	if limit <= 0 || limit > MaxLeaderboardLimit {
		limit = DefaultUpcomingLimit
	}
	now := s.now().UTC()
	return s.store.ListGameNightsBetween(ctx, now, now.Add(upcomingHorizon), limit)
}

func (s *GameNightService) RSVP(ctx context.Context, nightID string, req models.RSVPRequest) (*models.GameNight, error) {
	if !req.Status.Valid() {
		return nil, validationErrorf("unknown RSVP status %q", req.Status)
	}
	n, err := s.store.GetGameNight(ctx, nightID)
	if err != nil {
		return nil, err
	}
	if n.Cancelled {
		return nil, validationErrorf("game night is cancelled")
	}
	p, err := s.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		if isNotFound(err) {
			return nil, validationErrorf("unknown player %q", req.PlayerID)
		}
		return nil, err
	}

	rsvp := models.RSVP{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Status:      req.Status,
		RespondedAt: s.now().UTC(),
	}
	if err := s.store.UpsertRSVP(ctx, nightID, rsvp); err != nil {
		return nil, fmt.Errorf("rsvp %s to %s: %w", p.ID, nightID, err)
	}
	return s.store.GetGameNight(ctx, nightID)
}

// SendReminders publishes a reminder for every night starting within lead
// that has not been reminded yet. It returns the number of reminders sent.
func (s *GameNightService) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now().UTC()
	nights, err := s.store.ListGameNightsBetween(ctx, now, now.Add(lead), 0)
	if err != nil {
		return 0, fmt.Errorf("list due game nights: %w", err)
	}

	sent := 0
	for _, n := range nights {
		if n.RemindedAt != nil {
			continue
		}
		reminder := models.GameNightReminder{
			GameNightID: n.ID,
			Title:       n.Title,
			ScheduledAt: n.ScheduledAt,
			Location:    n.Location,
			Going:       []string{},
		}
		for _, r := range n.RSVPs {
			if r.Status == models.RSVPGoing {
				reminder.Going = append(reminder.Going, r.PlayerName)
			}
		}

		if s.cache != nil {
			msg, err := json.Marshal(reminder)
			if err != nil {
				return sent, err
			}
			if err := s.cache.Publish(ctx, ChannelGameNightReminders, msg); err != nil {
				s.logger.Warnw("Failed to publish reminder", "night", n.ID, "error", err)
				continue
			}
		}
		if err := s.store.MarkReminded(ctx, n.ID, now); err != nil {
			return sent, fmt.Errorf("mark %s reminded: %w", n.ID, err)
		}
		s.logger.Infow("Game night reminder sent", "night", n.ID, "going", len(reminder.Going))
		sent++
	}
	return sent, nil
}
