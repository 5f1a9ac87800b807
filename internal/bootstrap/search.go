package bootstrap

import (
	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/search"
)

// InitSearch connects to the search engine, makes sure both indexes exist
// with their settings, and returns the sink the schedulers push into.
func InitSearch() (*search.Index, error) {
	client := search.NewClient(conf.Conf.Meilisearch)
	if err := search.EnsureIndexes(client); err != nil {
		return nil, err
	}
	return search.NewIndex(client), nil
}
