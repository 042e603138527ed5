package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

const gameColumns = `id, name, slug, scoring_mode, points_per_player, is_active, created_at, updated_at`

func scanGame(row pgx.Row) (*models.GameDefinition, error) {
	var g models.GameDefinition
	err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.ScoringMode, &g.PointsPerPlayer, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (p *Postgres) CreateGame(ctx context.Context, g *models.GameDefinition) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, g.ID, g.Name, g.Slug, g.ScoringMode, g.PointsPerPlayer, g.IsActive, g.CreatedAt, g.UpdatedAt)
	return translate(err)
}

func (p *Postgres) UpdateGame(ctx context.Context, g *models.GameDefinition) error {
	return expectOne(p.pool.Exec(ctx, `
		UPDATE games
		SET name = $2, slug = $3, scoring_mode = $4, points_per_player = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`, g.ID, g.Name, g.Slug, g.ScoringMode, g.PointsPerPlayer, g.IsActive, g.UpdatedAt))
}

func (p *Postgres) GetGame(ctx context.Context, id string) (*models.GameDefinition, error) {
	return scanGame(p.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
}

func (p *Postgres) GetGameBySlug(ctx context.Context, slug string) (*models.GameDefinition, error) {
	return scanGame(p.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE slug = $1`, slug))
}

func (p *Postgres) ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE is_active OR $1
		ORDER BY lower(name)
	`, includeInactive)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	games := []models.GameDefinition{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}
