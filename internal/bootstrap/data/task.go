package data

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/reindex"
	"github.com/pkg/errors"
)

var initialTaskNames = []string{
	reindex.TaskNameFiles,
	reindex.TaskNameCollections,
}

// SeedReindexTasks enqueues a system-initiated full re-index per entity type
// on a database that has never seen one, so a fresh deployment populates its
// search index without operator action. Restarts never re-seed: any task
// history for a name, terminal or not, suppresses it.
func SeedReindexTasks(ctx context.Context, tasks *db.TaskStore) error {
	for _, name := range initialTaskNames {
		count, err := tasks.CountTasks(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to inspect task history for %s", name)
		}
		if count > 0 {
			continue
		}
		_, err = tasks.Enqueue(ctx, db.EnqueueParams{
			Initiator: model.TaskInitiatorSystem,
			Name:      name,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to seed initial %s task", name)
		}
	}
	return nil
}
