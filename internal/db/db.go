package db

import (
	"strings"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and migrates the catalog schema.
func Open(c conf.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(c.Type) {
	case "mysql":
		dialector = mysql.Open(c.DSN)
	case "postgres":
		dialector = postgres.Open(c.DSN)
	case "sqlite3", "sqlite":
		dialector = sqlite.Open(c.DSN)
	default:
		return nil, errors.Errorf("unsupported database type: %s", c.Type)
	}

	d, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", c.Type)
	}
	if err := AutoMigrate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func AutoMigrate(d *gorm.DB) error {
	return errors.WithStack(d.AutoMigrate(
		&model.AdminTask{},
		&model.File{},
		&model.FileTag{},
		&model.Collection{},
		&model.CollectionTag{},
	))
}
