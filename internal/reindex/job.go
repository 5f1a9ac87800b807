package reindex

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
)

const (
	TaskNameFiles       = "reindex-files"
	TaskNameCollections = "reindex-collections"

	defaultBatchSize = 1000
)

// EntityJob drives one entity type through one checkpointed step of a
// re-index pass.
type EntityJob interface {
	// TaskName identifies the admin task this job executes.
	TaskName() string
	// Step decodes the cursor in metadata, reads one page past it, pushes
	// the page into the index, and returns metadata holding the advanced
	// cursor. done reports an empty page, i.e. the stream is exhausted.
	Step(ctx context.Context, metadata string) (next string, done bool, err error)
}

type FileSource interface {
	ListFiles(ctx context.Context, limit int, cursor *db.FileCursor) ([]model.File, error)
}

type FileSink interface {
	UpsertFiles(ctx context.Context, files []model.File) error
}

type CollectionSource interface {
	ListCollections(ctx context.Context, limit int, cursor *db.CollectionCursor) ([]model.Collection, error)
}

type CollectionSink interface {
	UpsertCollections(ctx context.Context, collections []model.Collection) error
}

type FileJob struct {
	source    FileSource
	sink      FileSink
	batchSize int
}

func NewFileJob(source FileSource, sink FileSink, batchSize int) *FileJob {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &FileJob{source: source, sink: sink, batchSize: batchSize}
}

func (j *FileJob) TaskName() string {
	return TaskNameFiles
}

func (j *FileJob) Step(ctx context.Context, metadata string) (string, bool, error) {
	cursor := decodeFileCursor(metadata)
	files, err := j.source.ListFiles(ctx, j.batchSize, cursor)
	if err != nil {
		return "", false, err
	}
	if len(files) == 0 {
		return "", true, nil
	}
	if err := j.sink.UpsertFiles(ctx, files); err != nil {
		return "", false, err
	}
	last := &files[len(files)-1]
	next, err := encodeFileCursor(db.FileCursor{ID: last.ID, UploadedAt: last.UploadedAt})
	if err != nil {
		return "", false, err
	}
	return next, false, nil
}

type CollectionJob struct {
	source    CollectionSource
	sink      CollectionSink
	batchSize int
}

func NewCollectionJob(source CollectionSource, sink CollectionSink, batchSize int) *CollectionJob {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &CollectionJob{source: source, sink: sink, batchSize: batchSize}
}

func (j *CollectionJob) TaskName() string {
	return TaskNameCollections
}

func (j *CollectionJob) Step(ctx context.Context, metadata string) (string, bool, error) {
	cursor := decodeCollectionCursor(metadata)
	collections, err := j.source.ListCollections(ctx, j.batchSize, cursor)
	if err != nil {
		return "", false, err
	}
	if len(collections) == 0 {
		return "", true, nil
	}
	if err := j.sink.UpsertCollections(ctx, collections); err != nil {
		return "", false, err
	}
	last := &collections[len(collections)-1]
	next, err := encodeCollectionCursor(db.CollectionCursor{ID: last.ID, Name: last.Name})
	if err != nil {
		return "", false, err
	}
	return next, false, nil
}
