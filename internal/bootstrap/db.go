package bootstrap

import (
	"context"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/bootstrap/data"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"gorm.io/gorm"
)

// InitDB opens the primary store, migrates the schema and seeds the initial
// re-index tasks on a fresh database.
func InitDB(ctx context.Context) (*gorm.DB, error) {
	d, err := db.Open(conf.Conf.Database)
	if err != nil {
		return nil, err
	}
	if err := data.SeedReindexTasks(ctx, db.NewTaskStore(d)); err != nil {
		return nil, err
	}
	return d, nil
}
