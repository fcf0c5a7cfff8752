package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/database/repository"
)

// HistoryService prints the stored run history for the command line.
type HistoryService struct {
	DB *sql.DB
}

// PrintRecent writes up to limit runs to w, newest first.
func (s *HistoryService) PrintRecent(ctx context.Context, w io.Writer, limit int) error {
	if s.DB == nil {
		return fmt.Errorf("history: db not configured")
	}
	runs, err := repository.NewRunRepo(s.DB).Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintln(w, formatRun(r)); err != nil {
			return err
		}
	}
	return nil
}

// PrintRun writes the run with the given id to w.
func (s *HistoryService) PrintRun(ctx context.Context, w io.Writer, id string) error {
	if s.DB == nil {
		return fmt.Errorf("history: db not configured")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("run id %q: %w", id, err)
	}
	run, err := repository.NewRunRepo(s.DB).ByID(ctx, parsed)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", parsed)
	}
	_, err = fmt.Fprintln(w, formatRun(*run))
	return err
}

func formatRun(r repository.Run) string {
	outcome := "running"
	if r.Outcome != nil {
		outcome = *r.Outcome
	}
	line := fmt.Sprintf("%s  %s  F%d  %-10s  %-9s  %d ticks",
		r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Pane, r.Filename, outcome, r.Ticks)
	if r.Message != "" {
		line += "  " + r.Message
	}
	return line
}
