// Package store persists validation history in SQLite so repeated runs can be
// compared over time. History is best-effort: a broken or missing database
// never blocks validation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scenevalidator/internal/logging"
	"scenevalidator/internal/validator"
)

// Run is one recorded validation run.
type Run struct {
	ID          string
	SceneName   string
	SceneNumber string
	Source      string // file path or gs:// URI
	Valid       bool
	Errors      int
	Warnings    int
	CreatedAt   time.Time
}

// History is the SQLite-backed run log.
type History struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	scene_name   TEXT NOT NULL,
	scene_number TEXT NOT NULL,
	source       TEXT NOT NULL,
	valid        INTEGER NOT NULL,
	errors       INTEGER NOT NULL,
	warnings     INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Open opens (or creates) the history database at path.
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Record stores one validation result. The generated run ID is returned.
func (h *History) Record(ctx context.Context, result *validator.Result, source string) (string, error) {
	id := uuid.NewString()
	errs, warns := result.Counts()

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (id, scene_name, scene_number, source, valid, errors, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.SceneName, result.SceneNumber, source,
		boolToInt(result.Valid()), errs, warns, result.Timestamp.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	logging.History("recorded run %s: scene=%s valid=%v errors=%d warnings=%d",
		id, result.SceneName, result.Valid(), errs, warns)
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, scene_name, scene_number, source, valid, errors, warnings, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var valid int
		if err := rows.Scan(&r.ID, &r.SceneName, &r.SceneNumber, &r.Source,
			&valid, &r.Errors, &r.Warnings, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Valid = valid != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastForScene returns the most recent run for a scene name, or nil if the
// scene has never been validated. Used by batch mode to report deltas.
func (h *History) LastForScene(ctx context.Context, sceneName string) (*Run, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, scene_name, scene_number, source, valid, errors, warnings, created_at
		 FROM runs WHERE scene_name = ? ORDER BY created_at DESC LIMIT 1`, sceneName)

	var r Run
	var valid int
	err := row.Scan(&r.ID, &r.SceneName, &r.SceneNumber, &r.Source,
		&valid, &r.Errors, &r.Warnings, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}
	r.Valid = valid != 0
	return &r, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
