package store

import (
	"context"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// UpsertPlayerStats stores the whole document as JSONB. total_points and
// game_ids are copied out for ordering and filtering.
func (p *Postgres) UpsertPlayerStats(ctx context.Context, s *models.PlayerStats) error {
	gameIDs := make([]string, len(s.GameStats))
	for i, g := range s.GameStats {
		gameIDs[i] = g.GameID
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO player_stats (player_id, player_name, total_points, game_ids, doc, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			total_points = EXCLUDED.total_points,
			game_ids = EXCLUDED.game_ids,
			doc = EXCLUDED.doc,
			last_updated = EXCLUDED.last_updated
	`, s.PlayerID, s.PlayerName, s.Overall.TotalPoints, gameIDs, s, s.LastUpdated)
	return translate(err)
}

func (p *Postgres) DeletePlayerStats(ctx context.Context, playerID string) error {
	return expectOne(p.pool.Exec(ctx, `DELETE FROM player_stats WHERE player_id = $1`, playerID))
}

func (p *Postgres) GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	var s models.PlayerStats
	if err := p.pool.QueryRow(ctx, `SELECT doc FROM player_stats WHERE player_id = $1`, playerID).Scan(&s); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (p *Postgres) ListTopPlayerStats(ctx context.Context, limit int) ([]models.PlayerStats, error) {
	return p.queryStats(ctx, `
		SELECT doc FROM player_stats
		ORDER BY total_points DESC, player_name, player_id
		LIMIT $1
	`, limit)
}

func (p *Postgres) ListPlayerStatsForGame(ctx context.Context, gameID string) ([]models.PlayerStats, error) {
	return p.queryStats(ctx, `SELECT doc FROM player_stats WHERE $1 = ANY(game_ids)`, gameID)
}

func (p *Postgres) queryStats(ctx context.Context, sql string, args ...any) ([]models.PlayerStats, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []models.PlayerStats{}
	for rows.Next() {
		var s models.PlayerStats
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
