package models

import "time"

type FeedbackCategory string

const (
	FeedbackBug   FeedbackCategory = "bug"
	FeedbackIdea  FeedbackCategory = "idea"
	FeedbackOther FeedbackCategory = "other"
)

type Feedback struct {
	ID         string           `json:"id"`
	Category   FeedbackCategory `json:"category"`
	Message    string           `json:"message"`
	Contact    string           `json:"contact,omitempty"`
	Resolved   bool             `json:"resolved"`
	CreatedAt  time.Time        `json:"createdAt"`
	ResolvedAt *time.Time       `json:"resolvedAt,omitempty"`
}
