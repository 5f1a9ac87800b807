package bootstrap

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/gc"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/reindex"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/search"
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"gorm.io/gorm"
)

// Schedulers owns every background loop of the process. The re-index
// schedulers stay one-per-entity-type so neither scan blocks the other.
type Schedulers struct {
	files       *reindex.Scheduler
	collections *reindex.Scheduler
	sweeper     *gc.Sweeper
}

// InitSchedulers wires the task store, entity sources and the index sink
// into the background schedulers and starts them.
func InitSchedulers(d *gorm.DB, index *search.Index) *Schedulers {
	c := conf.Conf
	tasks := db.NewTaskStore(d)
	files := db.NewFileStore(d)
	collections := db.NewCollectionStore(d)

	s := &Schedulers{
		files: reindex.New(
			tasks,
			[]reindex.EntityJob{reindex.NewFileJob(files, index, c.Scheduler.BatchSize)},
			c.Scheduler.FastInterval,
			c.Scheduler.SlowInterval,
			utils.Log.WithField("component", "reindex-scheduler"),
		),
		collections: reindex.New(
			tasks,
			[]reindex.EntityJob{reindex.NewCollectionJob(collections, index, c.Scheduler.BatchSize)},
			c.Scheduler.FastInterval,
			c.Scheduler.SlowInterval,
			utils.Log.WithField("component", "reindex-scheduler"),
		),
		sweeper: gc.New(
			files,
			tasks,
			c.GC.Interval,
			c.GC.Grace,
			utils.Log.WithField("component", "gc-sweeper"),
		),
	}

	s.files.Start()
	s.collections.Start()
	s.sweeper.Start()
	utils.Log.Info("background schedulers started")
	return s
}

// Shutdown stops every scheduler and waits for its loop to exit; in-flight
// ticks finish first. ctx bounds the whole wait.
func (s *Schedulers) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, stop := range []func(context.Context) error{
		s.files.Stop,
		s.collections.Stop,
		s.sweeper.Stop,
	} {
		if err := stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
