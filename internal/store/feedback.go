package store

import (
	"context"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

func (p *Postgres) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO feedback (id, category, message, contact, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, f.ID, f.Category, f.Message, f.Contact, f.Resolved, f.CreatedAt)
	return translate(err)
}

func (p *Postgres) ListFeedback(ctx context.Context, includeResolved bool) ([]models.Feedback, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, category, message, contact, resolved, created_at, resolved_at
		FROM feedback
		WHERE NOT resolved OR $1
		ORDER BY created_at DESC
	`, includeResolved)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.Category, &f.Message, &f.Contact, &f.Resolved, &f.CreatedAt, &f.ResolvedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (p *Postgres) ResolveFeedback(ctx context.Context, id string, at time.Time) error {
	return expectOne(p.pool.Exec(ctx, `
		UPDATE feedback SET resolved = TRUE, resolved_at = $2 WHERE id = $1
	`, id, at))
}
