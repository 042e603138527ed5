package store

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// OpenClickHouse connects using a clickhouse:// DSN and pings the server.
func OpenClickHouse(ctx context.Context, dsn string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

// ClickHouseActivityLog appends session lifecycle rows to session_activity.
type ClickHouseActivityLog struct {
	conn driver.Conn
}

func NewClickHouseActivityLog(conn driver.Conn) *ClickHouseActivityLog {
	return &ClickHouseActivityLog{conn: conn}
}

func (l *ClickHouseActivityLog) RecordSessionActivity(ctx context.Context, a models.SessionActivity) error {
	batch, err := l.conn.PrepareBatch(ctx, `
		INSERT INTO session_activity (
			timestamp, session_id, game_id, game_name, action,
			player_count, total_points_pool, played_at
		)
	`)
	if err != nil {
		return err
	}
	if err := batch.Append(
		a.Timestamp,
		a.SessionID,
		a.GameID,
		a.GameName,
		string(a.Action),
		uint16(a.PlayerCount),
		int32(a.TotalPointsPool),
		a.PlayedAt,
	); err != nil {
		batch.Abort()
		return err
	}
	return batch.Send()
}

// DailyActivity counts sessions created per day over the trailing window.
func (l *ClickHouseActivityLog) DailyActivity(ctx context.Context, days int) ([]models.ActivityDay, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT
			toStartOfDay(timestamp) AS day,
			countIf(action = 'created') AS sessions,
			sumIf(toUInt64(player_count), action = 'created') AS players
		FROM session_activity
		WHERE timestamp >= now() - toIntervalDay(?)
		GROUP BY day
		ORDER BY day
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ActivityDay{}
	for rows.Next() {
		var d models.ActivityDay
		if err := rows.Scan(&d.Day, &d.Sessions, &d.Players); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GamePopularity ranks games by sessions that were recorded and never deleted.
func (l *ClickHouseActivityLog) GamePopularity(ctx context.Context, limit int) ([]models.GamePopularity, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT
			game_id,
			argMax(game_name, timestamp) AS game_name,
			uniqExact(session_id) AS sessions
		FROM session_activity
		WHERE session_id NOT IN (
			SELECT session_id FROM session_activity WHERE action = 'deleted'
		)
		GROUP BY game_id
		ORDER BY sessions DESC, game_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.GamePopularity{}
	for rows.Next() {
		var g models.GamePopularity
		if err := rows.Scan(&g.GameID, &g.GameName, &g.Sessions); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// NopActivityLog is used when no ClickHouse DSN is configured.
type NopActivityLog struct{}

func (NopActivityLog) RecordSessionActivity(context.Context, models.SessionActivity) error {
	return nil
}

func (NopActivityLog) DailyActivity(context.Context, int) ([]models.ActivityDay, error) {
	return []models.ActivityDay{}, nil
}

func (NopActivityLog) GamePopularity(context.Context, int) ([]models.GamePopularity, error) {
	return []models.GamePopularity{}, nil
}
