package search

import (
	"net/http"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/meilisearch/meilisearch-go"
	"github.com/pkg/errors"
)

const (
	FilesIndexUID       = "file-indexer-files"
	CollectionsIndexUID = "file-indexer-collections"

	primaryKey = "id"
)

// NewClient connects to the configured Meilisearch instance.
func NewClient(c conf.Meilisearch) meilisearch.ServiceManager {
	opts := []meilisearch.Option{}
	if c.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(c.APIKey))
	}
	return meilisearch.New(c.URL, opts...)
}

// EnsureIndexes creates the files and collections indexes when missing and
// applies their settings. Settings updates are idempotent, so re-running at
// every boot is fine.
func EnsureIndexes(client meilisearch.ServiceManager) error {
	if err := ensureIndex(client, FilesIndexUID, &meilisearch.Settings{
		SearchableAttributes: []string{"name", "tags"},
		FilterableAttributes: []string{"size", "mime_type", "tags", "uploaded_at"},
	}); err != nil {
		return err
	}
	return ensureIndex(client, CollectionsIndexUID, &meilisearch.Settings{
		SearchableAttributes: []string{"name", "tags"},
		FilterableAttributes: []string{"size", "tags", "created_at"},
	})
}

func ensureIndex(client meilisearch.ServiceManager, uid string, settings *meilisearch.Settings) error {
	_, err := client.GetIndex(uid)
	if err != nil {
		var mErr *meilisearch.Error
		if !errors.As(err, &mErr) || mErr.StatusCode != http.StatusNotFound {
			return errors.Wrapf(err, "failed to look up index %s", uid)
		}
		task, err := client.CreateIndex(&meilisearch.IndexConfig{Uid: uid, PrimaryKey: primaryKey})
		if err != nil {
			return errors.Wrapf(err, "failed to create index %s", uid)
		}
		if _, err := client.WaitForTask(task.TaskUID, 50*time.Millisecond); err != nil {
			return errors.Wrapf(err, "failed to wait for creation of index %s", uid)
		}
	}

	if _, err := client.Index(uid).UpdateSettings(settings); err != nil {
		return errors.Wrapf(err, "failed to update settings of index %s", uid)
	}
	return nil
}
