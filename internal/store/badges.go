package store

import (
	"context"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

func (p *Postgres) AwardBadges(ctx context.Context, playerID string, codes []string, at time.Time) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		INSERT INTO player_badges (player_id, badge_code, awarded_at)
		SELECT $1, code, $3 FROM unnest($2::text[]) AS code
		ON CONFLICT (player_id, badge_code) DO NOTHING
		RETURNING badge_code
	`, playerID, codes, at)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	added := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		added = append(added, code)
	}
	return added, rows.Err()
}

func (p *Postgres) ListPlayerBadges(ctx context.Context, playerID string) ([]models.PlayerBadge, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT player_id, badge_code, awarded_at
		FROM player_badges
		WHERE player_id = $1
		ORDER BY awarded_at, badge_code
	`, playerID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	badges := []models.PlayerBadge{}
	for rows.Next() {
		var b models.PlayerBadge
		if err := rows.Scan(&b.PlayerID, &b.BadgeCode, &b.AwardedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
