package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

type FeedbackService struct {
	store  FeedbackStore
	logger *zap.SugaredLogger
	now    Clock
}

func NewFeedbackService(store FeedbackStore, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{store: store, logger: logger.Sugar(), now: time.Now}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	switch req.Category {
	case models.FeedbackBug, models.FeedbackIdea, models.FeedbackOther:
	default:
		return nil, validationErrorf("unknown feedback category %q", req.Category)
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, validationErrorf("message is required")
	}

	f := &models.Feedback{
		ID:        uuid.NewString(),
		Category:  req.Category,
		Message:   msg,
		Contact:   strings.TrimSpace(req.Contact),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	s.logger.Infow("Feedback received", "feedback", f.ID, "category", f.Category)
	return f, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, includeResolved bool) ([]models.Feedback, error) {
	return s.store.ListFeedback(ctx, includeResolved)
}

func (s *FeedbackService) ResolveFeedback(ctx context.Context, id string) error {
	return s.store.ResolveFeedback(ctx, id, s.now().UTC())
}
