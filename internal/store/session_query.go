package store

import (
	"fmt"
	"strings"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

const sessionColumns = `id, game_id, game_name, scoring_mode, points_per_player, player_count,
	played_at, results, total_points_pool, notes, game_night_id, created_at, updated_at`

// BuildSessionListQuery turns a SessionFilter into a parameterized query,
// newest sessions first.
func BuildSessionListQuery(f models.SessionFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.GameID != "" {
		where = append(where, "game_id = "+arg(f.GameID))
	}
	if f.PlayerID != "" {
		where = append(where, arg(f.PlayerID)+" = ANY(player_ids)")
	}

	var b strings.Builder
	b.WriteString("SELECT " + sessionColumns + " FROM game_sessions")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY played_at DESC, id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + arg(f.Offset))
	}
	return b.String(), args
}
