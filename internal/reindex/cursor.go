package reindex

import (
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"github.com/pkg/errors"
)

// Task metadata stays a schema-less JSON document at the store boundary; it
// is decoded into a typed cursor right after reading and re-encoded right
// before writing, so no untyped blob flows through scheduler logic.

type fileTaskMetadata struct {
	LastFileID         *string    `json:"last_file_id"`
	LastFileUploadedAt *time.Time `json:"last_file_uploaded_at"`
}

type collectionTaskMetadata struct {
	LastCollectionID   *string `json:"last_collection_id"`
	LastCollectionName *string `json:"last_collection_name"`
}

// decodeFileCursor reads the checkpoint out of task metadata. Missing, null
// or malformed fields mean "start of stream"; a bad document is never fatal.
func decodeFileCursor(metadata string) *db.FileCursor {
	var m fileTaskMetadata
	if err := utils.Json.Unmarshal([]byte(metadata), &m); err != nil {
		return nil
	}
	if m.LastFileID == nil || m.LastFileUploadedAt == nil {
		return nil
	}
	return &db.FileCursor{ID: *m.LastFileID, UploadedAt: *m.LastFileUploadedAt}
}

func encodeFileCursor(c db.FileCursor) (string, error) {
	data, err := utils.Json.Marshal(fileTaskMetadata{
		LastFileID:         &c.ID,
		LastFileUploadedAt: &c.UploadedAt,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode file cursor")
	}
	return string(data), nil
}

func decodeCollectionCursor(metadata string) *db.CollectionCursor {
	var m collectionTaskMetadata
	if err := utils.Json.Unmarshal([]byte(metadata), &m); err != nil {
		return nil
	}
	if m.LastCollectionID == nil || m.LastCollectionName == nil {
		return nil
	}
	return &db.CollectionCursor{ID: *m.LastCollectionID, Name: *m.LastCollectionName}
}

func encodeCollectionCursor(c db.CollectionCursor) (string, error) {
	data, err := utils.Json.Marshal(collectionTaskMetadata{
		LastCollectionID:   &c.ID,
		LastCollectionName: &c.Name,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode collection cursor")
	}
	return string(data), nil
}
