package model

import "time"

type AdminTaskInitiator string

const (
	TaskInitiatorUser   AdminTaskInitiator = "user"
	TaskInitiatorSystem AdminTaskInitiator = "system"
)

type AdminTaskStatus string

const (
	TaskStatusPending    AdminTaskStatus = "pending"
	TaskStatusInProgress AdminTaskStatus = "in_progress"
	TaskStatusCanceled   AdminTaskStatus = "canceled"
	TaskStatusCompleted  AdminTaskStatus = "completed"
	TaskStatusFailed     AdminTaskStatus = "failed"
)

// Terminal reports whether no further status transition is valid.
func (s AdminTaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCanceled, TaskStatusCompleted, TaskStatusFailed:
		return true
	}
	return false
}

// AdminTask is one unit of maintenance work. Metadata is a schema-less JSON
// document; re-index tasks keep their resume cursor in it, GC tasks the
// outcome of the last sweep.
type AdminTask struct {
	ID         string             `gorm:"column:id;primaryKey;size:36" json:"id"`
	Initiator  AdminTaskInitiator `gorm:"column:initiator;size:16" json:"initiator"`
	Name       string             `gorm:"column:name;size:255;index:idx_admin_tasks_name_status" json:"name"`
	Metadata   string             `gorm:"column:metadata;type:text" json:"metadata"`
	Status     AdminTaskStatus    `gorm:"column:status;size:32;index:idx_admin_tasks_name_status" json:"status"`
	EnqueuedAt time.Time          `gorm:"column:enqueued_at;autoCreateTime" json:"enqueued_at"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime;index:idx_admin_tasks_updated_at" json:"updated_at"`
}

func (AdminTask) TableName() string {
	return "admin_tasks"
}

// AdminTaskPreview is the metadata-free projection used by task listings.
type AdminTaskPreview struct {
	ID         string             `json:"id"`
	Initiator  AdminTaskInitiator `json:"initiator"`
	Name       string             `json:"name"`
	Status     AdminTaskStatus    `json:"status"`
	EnqueuedAt time.Time          `json:"enqueued_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
