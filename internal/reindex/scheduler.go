package reindex

import (
	"context"
	"sync"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	defaultFastInterval = time.Second
	defaultSlowInterval = 10 * time.Second
)

// TaskStore is the slice of the admin task store the scheduler drives.
type TaskStore interface {
	GetLastActiveTask(ctx context.Context, name string) (*model.AdminTask, error)
	UpdateTaskStatus(ctx context.Context, id string, status model.AdminTaskStatus) error
	UpdateTaskMetadata(ctx context.Context, id string, metadata string) error
}

// Scheduler runs re-index jobs on a two-speed cadence: the fast interval
// while a backlog is draining, the slow one while idle. When several jobs
// share one scheduler the shortest requested interval wins, so one job's
// idle state never starves another's backlog.
type Scheduler struct {
	tasks TaskStore
	jobs  []EntityJob
	fast  time.Duration
	slow  time.Duration
	log   *logrus.Entry

	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func New(tasks TaskStore, jobs []EntityJob, fast, slow time.Duration, log *logrus.Entry) *Scheduler {
	if fast <= 0 {
		fast = defaultFastInterval
	}
	if slow <= 0 {
		slow = defaultSlowInterval
	}
	return &Scheduler{
		tasks: tasks,
		jobs:  jobs,
		fast:  fast,
		slow:  slow,
		log:   log,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the scheduler loop. Calling it more than once is a no-op.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop signals the loop and waits for it to exit; an in-flight tick is
// allowed to finish first. ctx bounds the wait.
func (s *Scheduler) Stop(ctx context.Context) error {
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

func (s *Scheduler) run() {
	defer close(s.done)

	timer := time.NewTimer(s.slow)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-timer.C:
		}

		interval := s.slow
		for _, job := range s.jobs {
			if next := s.runJob(context.Background(), job); next < interval {
				interval = next
			}
		}
		timer.Reset(interval)
	}
}

// runJob executes one tick for one job and returns the interval the job
// wants before its next tick. Every error is handled here; nothing
// propagates out of the loop.
func (s *Scheduler) runJob(ctx context.Context, job EntityJob) time.Duration {
	log := s.log.WithField("task", job.TaskName())

	task, err := s.tasks.GetLastActiveTask(ctx, job.TaskName())
	if err != nil {
		log.Errorf("failed to look up active task: %+v", err)
		return s.slow
	}
	if task == nil {
		return s.slow
	}

	// Make "work is underway" visible before touching the source, so a task
	// stuck in in_progress after a crash is diagnosable rather than lost.
	if task.Status == model.TaskStatusPending {
		if err := s.tasks.UpdateTaskStatus(ctx, task.ID, model.TaskStatusInProgress); err != nil {
			log.Errorf("failed to move task %s to in_progress: %+v", task.ID, err)
			return s.slow
		}
	}

	next, done, err := job.Step(ctx, task.Metadata)
	if err != nil {
		s.failTask(ctx, log, task.ID, err)
		return s.slow
	}
	if done {
		if err := s.tasks.UpdateTaskStatus(ctx, task.ID, model.TaskStatusCompleted); err != nil {
			log.Errorf("failed to complete task %s: %+v", task.ID, err)
			return s.slow
		}
		log.Infof("re-index task %s completed", task.ID)
		return s.slow
	}
	if err := s.tasks.UpdateTaskMetadata(ctx, task.ID, next); err != nil {
		s.failTask(ctx, log, task.ID, err)
		return s.slow
	}
	return s.fast
}

// failTask converts a tick-level error into a failed task status. Recovery
// happens through a later enqueue, which resumes from the last persisted
// cursor.
func (s *Scheduler) failTask(ctx context.Context, log *logrus.Entry, id string, cause error) {
	log.Errorf("re-index tick for task %s failed: %+v", id, cause)
	if err := s.tasks.UpdateTaskStatus(ctx, id, model.TaskStatusFailed); err != nil {
		log.Errorf("failed to mark task %s failed: %+v", id, err)
	}
}
