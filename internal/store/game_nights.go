package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// RSVPs are aggregated into a JSON array so a night is always one row.
const gameNightSelect = `
	SELECT n.id, n.title, n.scheduled_at, n.location, n.notes, n.cancelled, n.reminded_at,
		n.created_at, n.updated_at,
		COALESCE((
			SELECT jsonb_agg(jsonb_build_object(
				'playerId', r.player_id,
				'playerName', r.player_name,
				'status', r.status,
				'respondedAt', r.responded_at
			) ORDER BY r.responded_at)
			FROM game_night_rsvps r WHERE r.game_night_id = n.id
		), '[]'::jsonb) AS rsvps
	FROM game_nights n`

func scanGameNight(row pgx.Row) (*models.GameNight, error) {
	var n models.GameNight
	err := row.Scan(&n.ID, &n.Title, &n.ScheduledAt, &n.Location, &n.Notes, &n.Cancelled, &n.RemindedAt,
		&n.CreatedAt, &n.UpdatedAt, &n.RSVPs)
	if err != nil {
		return nil, translate(err)
	}
	if n.RSVPs == nil {
		n.RSVPs = []models.RSVP{}
	}
	return &n, nil
}

func (p *Postgres) CreateGameNight(ctx context.Context, n *models.GameNight) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO game_nights (id, title, scheduled_at, location, notes, cancelled, reminded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, n.ID, n.Title, n.ScheduledAt, n.Location, n.Notes, n.Cancelled, n.RemindedAt, n.CreatedAt, n.UpdatedAt)
	return translate(err)
}

func (p *Postgres) UpdateGameNight(ctx context.Context, n *models.GameNight) error {
	return expectOne(p.pool.Exec(ctx, `
		UPDATE game_nights
		SET title = $2, scheduled_at = $3, location = $4, notes = $5, cancelled = $6, reminded_at = $7, updated_at = $8
		WHERE id = $1
	`, n.ID, n.Title, n.ScheduledAt, n.Location, n.Notes, n.Cancelled, n.RemindedAt, n.UpdatedAt))
}

func (p *Postgres) GetGameNight(ctx context.Context, id string) (*models.GameNight, error) {
	return scanGameNight(p.pool.QueryRow(ctx, gameNightSelect+` WHERE n.id = $1`, id))
}

// ListGameNightsBetween returns non-cancelled nights in [from, to), soonest
// first. limit <= 0 means no limit.
func (p *Postgres) ListGameNightsBetween(ctx context.Context, from, to time.Time, limit int) ([]models.GameNight, error) {
	rows, err := p.pool.Query(ctx, gameNightSelect+`
		WHERE NOT n.cancelled AND n.scheduled_at >= $1 AND n.scheduled_at < $2
		ORDER BY n.scheduled_at
		LIMIT NULLIF($3, 0)
	`, from, to, limit)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	nights := []models.GameNight{}
	for rows.Next() {
		n, err := scanGameNight(rows)
		if err != nil {
			return nil, err
		}
		nights = append(nights, *n)
	}
	return nights, rows.Err()
}

func (p *Postgres) UpsertRSVP(ctx context.Context, nightID string, r models.RSVP) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO game_night_rsvps (game_night_id, player_id, player_name, status, responded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_night_id, player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			status = EXCLUDED.status,
			responded_at = EXCLUDED.responded_at
	`, nightID, r.PlayerID, r.PlayerName, r.Status, r.RespondedAt)
	return translate(err)
}

func (p *Postgres) MarkReminded(ctx context.Context, id string, at time.Time) error {
	return expectOne(p.pool.Exec(ctx, `UPDATE game_nights SET reminded_at = $2 WHERE id = $1`, id, at))
}
