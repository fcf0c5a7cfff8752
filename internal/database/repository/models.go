package repository

import (
	"time"

	"github.com/google/uuid"
)

// FileRow represents a files row: one directory record of the disk image.
type FileRow struct {
	Slot      int
	ID        string
	Name      string
	Size      int
	UpdatedAt time.Time
}

// BlockRow represents a file_blocks row.
type BlockRow struct {
	Slot  int
	Seq   int
	Block int
	Data  []byte
}

// Run represents a runs row.
type Run struct {
	ID         uuid.UUID
	Pane       int
	Filename   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Ticks      uint64
	Outcome    *string
	Message    string
}
