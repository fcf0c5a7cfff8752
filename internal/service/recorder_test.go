package service

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/quadpane/internal/database"
	"github.com/jask/quadpane/internal/database/repository"
	"github.com/jask/quadpane/internal/desktop"
	"github.com/jask/quadpane/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.DriverCgo, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestRecorderPersistsDesktopActivity(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db := newTestDB(t)

	fs := storage.New()
	require.NoError(t, fs.WriteFile("hello", []byte(`print("Hello, world!")`)))
	rec := NewRecorder(ctx, db, fs)
	d := desktop.New(fs, rec, nil)

	d.HandleKey(desktop.Named(desktop.KeyFilename))
	for _, r := range "notes" {
		d.HandleKey(desktop.Rune(r))
	}
	d.HandleKey(desktop.Named(desktop.KeyEnter))

	disk := repository.NewDiskRepo(db)
	files, err := disk.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "notes", files[1].Name)

	d.HandleKey(desktop.Rune('r'))
	for i := 0; i < 10 && d.Scheduler().Active(0); i++ {
		d.Tick()
	}
	require.False(t, d.Scheduler().Active(0))

	runs, err := repository.NewRunRepo(db).Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "hello", runs[0].Filename)
	require.Equal(t, 1, runs[0].Pane)
	require.Equal(t, uint64(1), runs[0].Ticks)
	require.NotNil(t, runs[0].Outcome)
	require.Equal(t, string(desktop.OutcomeDone), *runs[0].Outcome)
}

func TestRecorderSurvivesClosedDatabase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	rec := NewRecorder(context.Background(), db, storage.New())
	require.NoError(t, db.Close())

	// must log and carry on
	rec.FilesChanged()
	rec.RunEnded(desktop.RunResult{Outcome: desktop.OutcomeCancelled})
}

func TestMaintenance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	fs := storage.New()
	require.NoError(t, fs.WriteFile("a", []byte("x")))
	rec := NewRecorder(ctx, db, fs)
	rec.FilesChanged()

	runs := repository.NewRunRepo(db)
	base := database.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, runs.Start(ctx, repository.Run{ID: uuid.New(), Pane: 1, Filename: "a", StartedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	svc := &MaintenanceService{DB: db}
	n, err := svc.PruneHistory(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = svc.PruneHistory(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, svc.Reset(ctx))
	count, err := repository.NewDiskRepo(db).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	left, err := runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, left)

	_, err = (&MaintenanceService{}).PruneHistory(ctx, 1)
	require.Error(t, err)
}

func TestHistoryPrintsRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	runs := repository.NewRunRepo(db)
	base := database.Now()
	first, second := uuid.New(), uuid.New()
	require.NoError(t, runs.Start(ctx, repository.Run{ID: first, Pane: 1, Filename: "hello", StartedAt: base}))
	require.NoError(t, runs.Finish(ctx, first, base.Add(time.Second), 3, "error", "line 1: division by zero"))
	require.NoError(t, runs.Start(ctx, repository.Run{ID: second, Pane: 2, Filename: "greet", StartedAt: base.Add(time.Minute)}))

	svc := &HistoryService{DB: db}
	var buf bytes.Buffer
	require.NoError(t, svc.PrintRecent(ctx, &buf, 10))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], second.String())
	require.Contains(t, lines[0], "running")
	require.Contains(t, lines[1], "F1")
	require.Contains(t, lines[1], "3 ticks")
	require.Contains(t, lines[1], "division by zero")

	buf.Reset()
	require.NoError(t, svc.PrintRun(ctx, &buf, first.String()))
	require.Contains(t, buf.String(), "hello")
	require.Error(t, svc.PrintRun(ctx, &buf, uuid.New().String()))
	require.Error(t, svc.PrintRun(ctx, &buf, "not-a-uuid"))

	buf.Reset()
	require.NoError(t, (&HistoryService{DB: newTestDB(t)}).PrintRecent(ctx, &buf, 10))
	require.Equal(t, "no runs recorded\n", buf.String())
}
