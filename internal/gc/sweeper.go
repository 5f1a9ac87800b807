package gc

import (
	"context"
	"sync"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"github.com/sirupsen/logrus"
)

// TaskName is the admin task recorded after every sweep.
const TaskName = "file-gc"

const (
	defaultInterval = 6 * time.Hour
	defaultGrace    = 2 * time.Hour
)

type FileDeleter interface {
	DeleteUnreadyBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type TaskRecorder interface {
	Enqueue(ctx context.Context, p db.EnqueueParams) (*model.AdminTask, error)
}

type sweepOutcome struct {
	Success bool   `json:"success"`
	Deleted int64  `json:"deleted,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Sweeper periodically deletes files whose upload never completed and are
// older than the grace window, recording each sweep as a terminal admin
// task. A sweep either fully completes or fully fails within one tick, so
// there is no cursor to resume from.
type Sweeper struct {
	files    FileDeleter
	tasks    TaskRecorder
	interval time.Duration
	grace    time.Duration
	log      *logrus.Entry

	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func New(files FileDeleter, tasks TaskRecorder, interval, grace time.Duration, log *logrus.Entry) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if grace <= 0 {
		grace = defaultGrace
	}
	return &Sweeper{
		files:    files,
		tasks:    tasks,
		interval: interval,
		grace:    grace,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop signals the loop and waits for it to exit; ctx bounds the wait.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) run() {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-timer.C:
		}
		s.sweep(context.Background())
		timer.Reset(s.interval)
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.grace)
	deleted, err := s.files.DeleteUnreadyBefore(ctx, cutoff)

	outcome := sweepOutcome{Success: err == nil, Deleted: deleted}
	status := model.TaskStatusCompleted
	if err != nil {
		s.log.Errorf("gc sweep failed: %+v", err)
		outcome.Error = err.Error()
		status = model.TaskStatusFailed
	} else if deleted > 0 {
		s.log.Infof("gc sweep deleted %d stale incomplete uploads", deleted)
	}

	metadata, merr := utils.Json.Marshal(outcome)
	if merr != nil {
		s.log.Errorf("failed to encode gc sweep outcome: %+v", merr)
		return
	}
	_, err = s.tasks.Enqueue(ctx, db.EnqueueParams{
		Initiator:     model.TaskInitiatorSystem,
		Name:          TaskName,
		Metadata:      string(metadata),
		InitialStatus: status,
	})
	if err != nil {
		s.log.Errorf("failed to record gc sweep task: %+v", err)
	}
}
