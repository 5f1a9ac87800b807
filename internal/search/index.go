package search

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/pkg/errors"
)

// Index pushes catalog entities into the search engine. Upserts are
// idempotent, so a page re-sent after a failed tick is harmless.
type Index struct {
	client meilisearch.ServiceManager
}

func NewIndex(client meilisearch.ServiceManager) *Index {
	return &Index{client: client}
}

type fileDocument struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Size       int64    `json:"size"`
	MimeType   string   `json:"mime_type"`
	Tags       []string `json:"tags"`
	UploadedAt int64    `json:"uploaded_at"`
}

type collectionDocument struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"created_at"`
}

func toFileDocuments(files []model.File) []fileDocument {
	docs := make([]fileDocument, 0, len(files))
	for i := range files {
		f := &files[i]
		docs = append(docs, fileDocument{
			ID:         f.ID,
			Name:       f.Name,
			Size:       f.Size,
			MimeType:   f.MimeType,
			Tags:       f.TagNames(),
			UploadedAt: f.UploadedAt.Unix(),
		})
	}
	return docs
}

func toCollectionDocuments(collections []model.Collection) []collectionDocument {
	docs := make([]collectionDocument, 0, len(collections))
	for i := range collections {
		c := &collections[i]
		docs = append(docs, collectionDocument{
			ID:        c.ID,
			Name:      c.Name,
			Tags:      c.TagNames(),
			CreatedAt: c.CreatedAt.Unix(),
		})
	}
	return docs
}

func (i *Index) UpsertFiles(ctx context.Context, files []model.File) error {
	if len(files) == 0 {
		return nil
	}
	docs := toFileDocuments(files)
	_, err := i.client.Index(FilesIndexUID).UpdateDocumentsWithContext(ctx, docs)
	return errors.Wrap(err, "failed to upsert files into index")
}

func (i *Index) UpsertCollections(ctx context.Context, collections []model.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	docs := toCollectionDocuments(collections)
	_, err := i.client.Index(CollectionsIndexUID).UpdateDocumentsWithContext(ctx, docs)
	return errors.Wrap(err, "failed to upsert collections into index")
}

func (i *Index) DeleteFile(ctx context.Context, id string) error {
	_, err := i.client.Index(FilesIndexUID).DeleteDocumentWithContext(ctx, id)
	return errors.Wrapf(err, "failed to delete file %s from index", id)
}

func (i *Index) DeleteCollection(ctx context.Context, id string) error {
	_, err := i.client.Index(CollectionsIndexUID).DeleteDocumentWithContext(ctx, id)
	return errors.Wrapf(err, "failed to delete collection %s from index", id)
}

// DeleteAll empties both indexes; operators use it before a full re-index.
func (i *Index) DeleteAll(ctx context.Context) error {
	if _, err := i.client.Index(FilesIndexUID).DeleteAllDocumentsWithContext(ctx); err != nil {
		return errors.Wrap(err, "failed to empty files index")
	}
	if _, err := i.client.Index(CollectionsIndexUID).DeleteAllDocumentsWithContext(ctx); err != nil {
		return errors.Wrap(err, "failed to empty collections index")
	}
	return nil
}
