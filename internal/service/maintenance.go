package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/quadpane/internal/database"
	"github.com/jask/quadpane/internal/database/repository"
)

// MaintenanceService houses housekeeping run at startup.
type MaintenanceService struct {
	DB *sql.DB
}

// PruneHistory keeps only the newest keep run records. A non-positive keep
// leaves the history alone.
func (s *MaintenanceService) PruneHistory(ctx context.Context, keep int) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	if keep <= 0 {
		return 0, nil
	}
	return repository.NewRunRepo(s.DB).Prune(ctx, keep)
}

// Reset wipes the stored disk image and run history. It keeps the schema
// intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"file_blocks", "files", "runs"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
