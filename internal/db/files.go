package db

import (
	"context"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type FileStore struct {
	db *gorm.DB
}

func NewFileStore(db *gorm.DB) *FileStore {
	return &FileStore{db: db}
}

// FileCursor is the keyset position for ListFiles, ordered by
// (uploaded_at DESC, id ASC).
type FileCursor struct {
	ID         string
	UploadedAt time.Time
}

// ListFiles returns up to limit ready files strictly after the cursor
// position, newest first. Rows inserted behind an already-issued cursor are
// never revisited; an empty page means the scan is done.
func (s *FileStore) ListFiles(ctx context.Context, limit int, cursor *FileCursor) ([]model.File, error) {
	tx := s.db.WithContext(ctx).Where("is_ready = ?", true)
	if cursor != nil {
		// Tuple comparison matching the (uploaded_at DESC, id ASC) order, so
		// no row is skipped or revisited across pages.
		tx = tx.Where("uploaded_at < ? OR (uploaded_at = ? AND id > ?)",
			cursor.UploadedAt, cursor.UploadedAt, cursor.ID)
	}
	var files []model.File
	err := tx.Order("uploaded_at DESC").
		Order("id ASC").
		Limit(clampLimit(limit)).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tag ASC") }).
		Find(&files).Error
	return files, errors.WithStack(err)
}

// CreateFile inserts a file row together with its tags. A missing id is
// assigned here.
func (s *FileStore) CreateFile(ctx context.Context, file *model.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	for i := range file.Tags {
		file.Tags[i].FileID = file.ID
	}
	return errors.WithStack(s.db.WithContext(ctx).Create(file).Error)
}

// MarkFileReady flips the upload-complete flag; only ready files are listed
// and indexed, and only unready ones are swept.
func (s *FileStore) MarkFileReady(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&model.File{}).
		Where("id = ?", id).
		Update("is_ready", true).Error
	return errors.Wrapf(err, "failed to mark file %s ready", id)
}

// DeleteUnreadyBefore removes files that never completed their upload and are
// older than the cutoff, along with their tags, returning how many rows went.
// Ready files are untouched regardless of age.
func (s *FileStore) DeleteUnreadyBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&model.File{}).
			Where("is_ready = ? AND uploaded_at < ?", false, cutoff).
			Pluck("id", &ids).Error
		if err != nil {
			return errors.WithStack(err)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("file_id IN ?", ids).Delete(&model.FileTag{}).Error; err != nil {
			return errors.WithStack(err)
		}
		res := tx.Where("id IN ?", ids).Delete(&model.File{})
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
