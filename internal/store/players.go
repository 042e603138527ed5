package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tabletop-league/scorekeeper/internal/logic"
	"github.com/tabletop-league/scorekeeper/internal/models"
)

const playerColumns = `id, name, email, avatar_url, bio, is_active, created_at, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var pl models.Player
	err := row.Scan(&pl.ID, &pl.Name, &pl.Email, &pl.AvatarURL, &pl.Bio, &pl.IsActive, &pl.CreatedAt, &pl.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &pl, nil
}

func (p *Postgres) CreatePlayer(ctx context.Context, pl *models.Player) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pl.ID, pl.Name, pl.Email, pl.AvatarURL, pl.Bio, pl.IsActive, pl.CreatedAt, pl.UpdatedAt)
	return translate(err)
}

func (p *Postgres) UpdatePlayer(ctx context.Context, pl *models.Player) error {
	return expectOne(p.pool.Exec(ctx, `
		UPDATE players
		SET name = $2, email = $3, avatar_url = $4, bio = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`, pl.ID, pl.Name, pl.Email, pl.AvatarURL, pl.Bio, pl.IsActive, pl.UpdatedAt))
}

func (p *Postgres) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return scanPlayer(p.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (p *Postgres) GetPlayers(ctx context.Context, ids []string) ([]models.Player, error) {
	return p.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1)`, ids)
}

func (p *Postgres) ListPlayers(ctx context.Context, includeArchived bool) ([]models.Player, error) {
	return p.queryPlayers(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE is_active OR $1
		ORDER BY lower(name)
	`, includeArchived)
}

func (p *Postgres) queryPlayers(ctx context.Context, sql string, args ...any) ([]models.Player, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		pl, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *pl)
	}
	return players, rows.Err()
}

// DeletePlayer removes the player, anonymizes their session results and drops
// their stats. Badges and RSVPs go with the player row via ON DELETE CASCADE.
func (p *Postgres) DeletePlayer(ctx context.Context, id string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return logic.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE game_sessions
		SET results = (
			SELECT jsonb_agg(
				CASE WHEN r->>'playerId' = $1
					THEN r || jsonb_build_object('playerId', '', 'playerName', $2::text)
					ELSE r
				END ORDER BY ord)
			FROM jsonb_array_elements(results) WITH ORDINALITY AS t(r, ord)
		),
		player_ids = array_remove(player_ids, $1)
		WHERE $1 = ANY(player_ids)
	`, id, models.DeletedPlayerName); err != nil {
		return fmt.Errorf("anonymize sessions: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM player_stats WHERE player_id = $1`, id); err != nil {
		return fmt.Errorf("delete stats: %w", err)
	}

	return tx.Commit(ctx)
}
