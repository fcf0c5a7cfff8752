package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/storage"
)

// DiskRepo stores the block file system image.
type DiskRepo struct {
	db *sql.DB
}

func NewDiskRepo(db *sql.DB) *DiskRepo { return &DiskRepo{db: db} }

// FileID is the stable row id of a stored name.
func FileID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("file:"+name)).String()
}

func (r *DiskRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}

// Replace overwrites the stored image with img inside tx.
func (r *DiskRepo) Replace(ctx context.Context, tx *sql.Tx, img storage.Image) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_blocks`); err != nil {
		return fmt.Errorf("clear blocks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("clear files: %w", err)
	}
	for _, f := range img.Files {
		name := f.Name.String()
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO files(slot, id, name, size, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP);
		`, f.Slot, FileID(name), name, f.Size); err != nil {
			return fmt.Errorf("insert file %s: %w", name, err)
		}
		for seq, b := range f.Blocks {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO file_blocks(slot, seq, block, data) VALUES (?, ?, ?, ?);
			`, f.Slot, seq, b.Index, b.Data); err != nil {
				return fmt.Errorf("insert block %d of %s: %w", seq, name, err)
			}
		}
	}
	return nil
}

func (r *DiskRepo) Files(ctx context.Context) ([]FileRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, id, name, size, updated_at FROM files ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.Slot, &f.ID, &f.Name, &f.Size, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *DiskRepo) Blocks(ctx context.Context) ([]BlockRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, seq, block, data FROM file_blocks ORDER BY slot, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BlockRow
	for rows.Next() {
		var b BlockRow
		if err := rows.Scan(&b.Slot, &b.Seq, &b.Block, &b.Data); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Load rebuilds the stored image. The result still has to pass
// FileSystem.Restore validation.
func (r *DiskRepo) Load(ctx context.Context) (storage.Image, error) {
	files, err := r.Files(ctx)
	if err != nil {
		return storage.Image{}, err
	}
	blocks, err := r.Blocks(ctx)
	if err != nil {
		return storage.Image{}, err
	}
	bySlot := make(map[int][]storage.ImageBlock, len(files))
	for _, b := range blocks {
		bySlot[b.Slot] = append(bySlot[b.Slot], storage.ImageBlock{Index: b.Block, Data: b.Data})
	}
	var img storage.Image
	for _, f := range files {
		name, err := storage.ParseFilename(f.Name)
		if err != nil {
			return storage.Image{}, fmt.Errorf("stored file %q: %w", f.Name, err)
		}
		img.Files = append(img.Files, storage.ImageFile{Slot: f.Slot, Name: name, Size: f.Size, Blocks: bySlot[f.Slot]})
	}
	return img, nil
}
