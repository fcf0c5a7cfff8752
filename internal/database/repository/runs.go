package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RunRepo keeps the program run history.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Start(ctx context.Context, run Run) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO runs(id, pane, filename, started_at) VALUES (?, ?, ?, ?);
	`, run.ID.String(), run.Pane, run.Filename, run.StartedAt)
	return err
}

// Finish records how a run ended. Finishing an unknown run is not an error;
// the start may have failed to persist.
func (r *RunRepo) Finish(ctx context.Context, id uuid.UUID, at time.Time, ticks uint64, outcome, message string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE runs SET finished_at = ?, ticks = ?, outcome = ?, message = ? WHERE id = ?;
	`, at, int64(ticks), outcome, message, id.String())
	return err
}

func (r *RunRepo) ByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, pane, filename, started_at, finished_at, ticks, outcome, message FROM runs WHERE id = ?
	`, id.String())
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// Recent lists up to limit runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, pane, filename, started_at, finished_at, ticks, outcome, message
	FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs.
func (r *RunRepo) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM runs WHERE rowid NOT IN (
		SELECT rowid FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
	);
	`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run      Run
		id       string
		ticks    int64
		finished sql.NullTime
		outcome  sql.NullString
	)
	if err := s.Scan(&id, &run.Pane, &run.Filename, &run.StartedAt, &finished, &ticks, &outcome, &run.Message); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	run.ID = parsed
	run.Ticks = uint64(ticks)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	if outcome.Valid {
		o := outcome.String
		run.Outcome = &o
	}
	return &run, nil
}
