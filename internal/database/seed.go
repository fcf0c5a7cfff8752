package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/quadpane/internal/database/repository"
	"github.com/jask/quadpane/internal/programs"
	"github.com/jask/quadpane/internal/storage"
)

// SeedPrograms installs the built-in programs when the stored disk is empty.
// It is idempotent and safe to run on every startup. fs receives the programs
// and the resulting image is persisted.
func SeedPrograms(ctx context.Context, db *sql.DB, fs *storage.FileSystem) (int, error) {
	disk := repository.NewDiskRepo(db)
	n, err := disk.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	progs, err := programs.Seed()
	if err != nil {
		return 0, err
	}
	for _, p := range progs {
		if err := fs.WriteFile(p.Name, []byte(p.Source)); err != nil {
			return 0, fmt.Errorf("seed %s: %w", p.Name, err)
		}
	}
	img := fs.Snapshot()
	if err := WithTx(db, func(tx *sql.Tx) error {
		return disk.Replace(ctx, tx, img)
	}); err != nil {
		return 0, err
	}
	return len(progs), nil
}
