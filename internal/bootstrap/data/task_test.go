package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/reindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestTaskStore(t *testing.T) *db.TaskStore {
	t.Helper()
	d, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "seed.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(d))
	return db.NewTaskStore(d)
}

func TestSeedReindexTasksFreshDatabase(t *testing.T) {
	tasks := newTestTaskStore(t)
	ctx := context.Background()

	require.NoError(t, SeedReindexTasks(ctx, tasks))

	for _, name := range []string{reindex.TaskNameFiles, reindex.TaskNameCollections} {
		task, err := tasks.GetLastActiveTask(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, task, "expected a seeded task for %s", name)
		assert.Equal(t, model.TaskInitiatorSystem, task.Initiator)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.Equal(t, "{}", task.Metadata)
	}
}

func TestSeedReindexTasksIsIdempotent(t *testing.T) {
	tasks := newTestTaskStore(t)
	ctx := context.Background()

	require.NoError(t, SeedReindexTasks(ctx, tasks))
	require.NoError(t, SeedReindexTasks(ctx, tasks))

	for _, name := range []string{reindex.TaskNameFiles, reindex.TaskNameCollections} {
		count, err := tasks.CountTasks(ctx, name)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	}
}

func TestSeedReindexTasksHistorySuppressesReseed(t *testing.T) {
	tasks := newTestTaskStore(t)
	ctx := context.Background()

	// A finished run on one name must not trigger a fresh seed for it.
	_, err := tasks.Enqueue(ctx, db.EnqueueParams{
		Initiator:     model.TaskInitiatorUser,
		Name:          reindex.TaskNameFiles,
		InitialStatus: model.TaskStatusCompleted,
	})
	require.NoError(t, err)

	require.NoError(t, SeedReindexTasks(ctx, tasks))

	count, err := tasks.CountTasks(ctx, reindex.TaskNameFiles)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	active, err := tasks.GetLastActiveTask(ctx, reindex.TaskNameFiles)
	require.NoError(t, err)
	assert.Nil(t, active)

	// The untouched name still gets its seed.
	collections, err := tasks.GetLastActiveTask(ctx, reindex.TaskNameCollections)
	require.NoError(t, err)
	require.NotNil(t, collections)
	assert.Equal(t, model.TaskInitiatorSystem, collections.Initiator)
}
