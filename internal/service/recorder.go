package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/database"
	"github.com/jask/quadpane/internal/database/repository"
	"github.com/jask/quadpane/internal/desktop"
	"github.com/jask/quadpane/internal/storage"
)

// Snapshotter is the part of the file system the recorder persists.
type Snapshotter interface {
	Snapshot() storage.Image
}

// Recorder persists desktop changes: the disk image after every file change
// and one history row per program run. Failures are logged, never returned,
// so a broken database cannot stop the desktop.
type Recorder struct {
	ctx   context.Context
	db    *sql.DB
	disk  *repository.DiskRepo
	runs  *repository.RunRepo
	files Snapshotter
	now   func() time.Time
}

func NewRecorder(ctx context.Context, db *sql.DB, files Snapshotter) *Recorder {
	return &Recorder{
		ctx:   ctx,
		db:    db,
		disk:  repository.NewDiskRepo(db),
		runs:  repository.NewRunRepo(db),
		files: files,
		now:   database.Now,
	}
}

var _ desktop.Observer = (*Recorder)(nil)

func (r *Recorder) FilesChanged() {
	img := r.files.Snapshot()
	if err := database.WithTx(r.db, func(tx *sql.Tx) error {
		return r.disk.Replace(r.ctx, tx, img)
	}); err != nil {
		log.Printf("warn: persist disk image: %v", err)
	}
}

func (r *Recorder) RunStarted(pane int, runID uuid.UUID, file storage.Filename) {
	log.Printf("run %s: %s started in pane %d", runID, file, pane)
	if err := r.runs.Start(r.ctx, repository.Run{ID: runID, Pane: pane, Filename: file.String(), StartedAt: r.now()}); err != nil {
		log.Printf("warn: record run start: %v", err)
	}
}

func (r *Recorder) RunEnded(res desktop.RunResult) {
	log.Printf("run %s: %s %s after %d ticks %s", res.RunID, res.File, res.Outcome, res.Ticks, res.Message)
	if err := r.runs.Finish(r.ctx, res.RunID, r.now(), res.Ticks, string(res.Outcome), res.Message); err != nil {
		log.Printf("warn: record run end: %v", err)
	}
}
