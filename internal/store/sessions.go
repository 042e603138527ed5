package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

func scanSession(row pgx.Row) (*models.GameSession, error) {
	var s models.GameSession
	err := row.Scan(
		&s.ID, &s.GameID, &s.GameName, &s.ScoringMode, &s.PointsPerPlayer, &s.PlayerCount,
		&s.PlayedAt, &s.Results, &s.TotalPointsPool, &s.Notes, &s.GameNightID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if s.Results == nil {
		s.Results = []models.GameResult{}
	}
	return &s, nil
}

func (p *Postgres) CreateSession(ctx context.Context, s *models.GameSession) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO game_sessions (`+sessionColumns+`, player_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		s.ID, s.GameID, s.GameName, s.ScoringMode, s.PointsPerPlayer, s.PlayerCount,
		s.PlayedAt, s.Results, s.TotalPointsPool, s.Notes, s.GameNightID, s.CreatedAt, s.UpdatedAt,
		s.PlayerIDs(),
	)
	return translate(err)
}

func (p *Postgres) UpdateSession(ctx context.Context, s *models.GameSession) error {
	return expectOne(p.pool.Exec(ctx, `
		UPDATE game_sessions
		SET played_at = $2, results = $3, player_ids = $4, player_count = $5,
			total_points_pool = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`, s.ID, s.PlayedAt, s.Results, s.PlayerIDs(), s.PlayerCount, s.TotalPointsPool, s.Notes, s.UpdatedAt))
}

func (p *Postgres) DeleteSession(ctx context.Context, id string) error {
	return expectOne(p.pool.Exec(ctx, `DELETE FROM game_sessions WHERE id = $1`, id))
}

func (p *Postgres) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	return scanSession(p.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM game_sessions WHERE id = $1`, id))
}

func (p *Postgres) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.GameSession, error) {
	sql, args := BuildSessionListQuery(f)
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	sessions := []models.GameSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (p *Postgres) ListSessionsForPlayer(ctx context.Context, playerID string) ([]models.GameSession, error) {
	return p.ListSessions(ctx, models.SessionFilter{PlayerID: playerID})
}

func (p *Postgres) ListParticipantIDs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT unnest(player_ids) AS player_id
		FROM game_sessions
		ORDER BY player_id
	`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
