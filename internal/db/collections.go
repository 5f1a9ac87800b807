package db

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CollectionStore struct {
	db *gorm.DB
}

func NewCollectionStore(db *gorm.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// CollectionCursor is the keyset position for ListCollections, ordered by
// (name ASC, id ASC).
type CollectionCursor struct {
	ID   string
	Name string
}

// ListCollections returns up to limit collections strictly after the cursor
// position in lexical order.
func (s *CollectionStore) ListCollections(ctx context.Context, limit int, cursor *CollectionCursor) ([]model.Collection, error) {
	tx := s.db.WithContext(ctx)
	if cursor != nil {
		tx = tx.Where("name > ? OR (name = ? AND id > ?)",
			cursor.Name, cursor.Name, cursor.ID)
	}
	var collections []model.Collection
	err := tx.Order("name ASC").
		Order("id ASC").
		Limit(clampLimit(limit)).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tag ASC") }).
		Find(&collections).Error
	return collections, errors.WithStack(err)
}

func (s *CollectionStore) CreateCollection(ctx context.Context, collection *model.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}
	for i := range collection.Tags {
		collection.Tags[i].CollectionID = collection.ID
	}
	return errors.WithStack(s.db.WithContext(ctx).Create(collection).Error)
}
