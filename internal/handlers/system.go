package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// schemaTarget is one database the installer knows how to migrate.
type schemaTarget struct {
	name string
	dir  string
	// exec runs one migration file's content.
	exec func(ctx context.Context, sql string) error
}

// InstallDatabase applies the bundled migrations
// @Summary Install Database Schema
// @Description Runs every migrations/<engine>/*.sql file in name order for PostgreSQL and, when configured, ClickHouse
// @Tags System
// @Produce json
// @Security AdminToken
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]interface{}
// @Router /admin/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	targets := []schemaTarget{{name: "postgres", dir: "postgres", exec: h.execPostgres}}
	results := map[string]string{}
	applied := map[string][]string{}

	if h.ch != nil {
		targets = append(targets, schemaTarget{name: "clickhouse", dir: "clickhouse", exec: h.execClickHouse})
	} else {
		results["clickhouse"] = "skipped"
	}

	failed := false
	for _, t := range targets {
		files, err := h.applyMigrations(r.Context(), t)
		applied[t.name] = files
		if err != nil {
			h.logger.Errorw("Schema install failed", "db", t.name, "error", err)
			results[t.name] = "failed"
			failed = true
			continue
		}
		h.logger.Infow("Schema installed", "db", t.name, "files", len(files))
		results[t.name] = "success"
	}

	status := http.StatusOK
	if failed {
		status = http.StatusInternalServerError
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"applied": applied,
		"error":   failed,
	})
}

// applyMigrations returns the files it ran, stopping at the first failure.
func (h *Handler) applyMigrations(ctx context.Context, t schemaTarget) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(h.migrations, t.dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations in %s", filepath.Join(h.migrations, t.dir))
	}
	sort.Strings(files)

	done := make([]string, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return done, err
		}
		if err := t.exec(ctx, string(content)); err != nil {
			return done, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		done = append(done, filepath.Base(f))
	}
	return done, nil
}

func (h *Handler) execPostgres(ctx context.Context, sql string) error {
	_, err := h.pg.Exec(ctx, sql)
	return err
}

// execClickHouse sends statements one at a time; the native protocol
// rejects multi-statement queries.
func (h *Handler) execClickHouse(ctx context.Context, sql string) error {
	for _, stmt := range strings.Split(sql, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := h.ch.Exec(ctx, stmt); err != nil {
			h.logger.Warnw("Statement failed", "db", "clickhouse", "statement", stmt[:min(len(stmt), 50)]+"...")
			return err
		}
	}
	return nil
}

// RecalculateAllStats rebuilds every player's stats synchronously. Used
// for backfills after imports or scoring rule changes.
func (h *Handler) RecalculateAllStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.RecalculateAllStats(r.Context())
	if err != nil {
		h.serviceError(w, r, err, "Stats")
		return
	}
	h.jsonResponse(w, http.StatusOK, summary)
}
