package db

import (
	"context"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// activeStatuses are the non-terminal statuses; at most one task per name may
// hold one of them at a time under this store's own writes.
var activeStatuses = []model.AdminTaskStatus{
	model.TaskStatusPending,
	model.TaskStatusInProgress,
}

type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) GetTask(ctx context.Context, id string) (*model.AdminTask, error) {
	var task model.AdminTask
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to find task %s", id)
	}
	return &task, nil
}

// GetLastActiveTask returns the pending or in-progress task for name, or nil
// when none exists. Enqueue keeps at most one such row per name; should an
// external writer have broken that, the newest one wins.
func (s *TaskStore) GetLastActiveTask(ctx context.Context, name string) (*model.AdminTask, error) {
	var task model.AdminTask
	err := s.db.WithContext(ctx).
		Where("name = ? AND status IN ?", name, activeStatuses).
		Order("enqueued_at DESC").
		Order("id DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find active task for %s", name)
	}
	return &task, nil
}

// TaskCursor is the keyset position for ListTasks, ordered by
// (updated_at DESC, id ASC).
type TaskCursor struct {
	ID        string
	UpdatedAt time.Time
}

const (
	maxListLimit     = 1000
	defaultListLimit = 20
)

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// ListTasks returns one page of metadata-free task previews for operator
// visibility. A nil cursor starts at the newest task.
func (s *TaskStore) ListTasks(ctx context.Context, limit int, cursor *TaskCursor) ([]model.AdminTaskPreview, error) {
	tx := s.db.WithContext(ctx).
		Model(&model.AdminTask{}).
		Select("id", "initiator", "name", "status", "enqueued_at", "updated_at")
	if cursor != nil {
		tx = tx.Where("updated_at < ? OR (updated_at = ? AND id > ?)",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.ID)
	}
	var previews []model.AdminTaskPreview
	err := tx.Order("updated_at DESC").
		Order("id ASC").
		Limit(clampLimit(limit)).
		Find(&previews).Error
	return previews, errors.WithStack(err)
}

// CountTasks reports how many tasks of any status exist for name. Bootstrap
// uses it to decide whether a fresh deployment still needs its initial
// re-index seeded.
func (s *TaskStore) CountTasks(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.AdminTask{}).
		Where("name = ?", name).
		Count(&count).Error
	return count, errors.WithStack(err)
}

type EnqueueParams struct {
	Initiator model.AdminTaskInitiator
	Name      string
	Metadata  string
	// InitialStatus overrides the default pending status; the GC sweep uses
	// it to record already-terminal outcomes.
	InitialStatus model.AdminTaskStatus
	// CancelPrevious marks every still-active task of the same name canceled
	// in the same transaction that inserts the new row.
	CancelPrevious bool
}

// Enqueue inserts a new task row. With CancelPrevious the cancellation of
// active same-name rows and the insert are atomic, so no window exists where
// two active tasks of one name coexist.
func (s *TaskStore) Enqueue(ctx context.Context, p EnqueueParams) (*model.AdminTask, error) {
	status := p.InitialStatus
	if status == "" {
		status = model.TaskStatusPending
	}
	metadata := p.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	task := &model.AdminTask{
		ID:        uuid.NewString(),
		Initiator: p.Initiator,
		Name:      p.Name,
		Metadata:  metadata,
		Status:    status,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.CancelPrevious {
			err := tx.Model(&model.AdminTask{}).
				Where("name = ? AND status IN ?", p.Name, activeStatuses).
				Updates(map[string]any{
					"status":     model.TaskStatusCanceled,
					"updated_at": time.Now(),
				}).Error
			if err != nil {
				return errors.Wrapf(err, "failed to cancel previous tasks for %s", p.Name)
			}
		}
		return errors.WithStack(tx.Create(task).Error)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus overwrites the task status. Transition validity is the
// caller's responsibility; the scheduler only issues valid transitions.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id string, status model.AdminTaskStatus) error {
	err := s.db.WithContext(ctx).Model(&model.AdminTask{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
	return errors.Wrapf(err, "failed to update status of task %s", id)
}

// UpdateTaskMetadata overwrites the task metadata document.
func (s *TaskStore) UpdateTaskMetadata(ctx context.Context, id string, metadata string) error {
	err := s.db.WithContext(ctx).Model(&model.AdminTask{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"metadata":   metadata,
			"updated_at": time.Now(),
		}).Error
	return errors.Wrapf(err, "failed to update metadata of task %s", id)
}
