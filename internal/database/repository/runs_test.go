package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/quadpane/internal/database"
	"github.com/jask/quadpane/internal/database/repository"
)

func TestRunHistory(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := database.Open(database.DriverCgo, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	runs := repository.NewRunRepo(db)

	base := database.Now()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, runs.Start(ctx, repository.Run{
			ID:        id,
			Pane:      i + 1,
			Filename:  "hello",
			StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, runs.Finish(ctx, ids[0], base.Add(time.Minute), 7, "done", ""))
	require.NoError(t, runs.Finish(ctx, uuid.New(), base, 1, "done", ""), "unknown run is ignored")

	got, err := runs.ByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, uint64(7), got.Ticks)
	require.NotNil(t, got.FinishedAt)
	require.NotNil(t, got.Outcome)
	require.Equal(t, "done", *got.Outcome)

	missing, err := runs.ByID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)

	recent, err := runs.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, ids[2], recent[0].ID)
	require.Nil(t, recent[0].FinishedAt)

	pruned, err := runs.Prune(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), pruned)
	recent, err = runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, ids[2], recent[0].ID)
}
