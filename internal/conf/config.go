package conf

import (
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/pkg/errors"
)

type Database struct {
	Type string `env:"DB_TYPE" envDefault:"sqlite3"`
	DSN  string `env:"DB_DSN" envDefault:"data/opencatalog.db"`
}

type Meilisearch struct {
	URL    string `env:"MEILISEARCH_URL" envDefault:"http://localhost:7700"`
	APIKey string `env:"MEILISEARCH_API_KEY"`
}

type Scheduler struct {
	BatchSize    int           `env:"REINDEX_BATCH_SIZE" envDefault:"1000"`
	FastInterval time.Duration `env:"REINDEX_FAST_INTERVAL" envDefault:"1s"`
	SlowInterval time.Duration `env:"REINDEX_SLOW_INTERVAL" envDefault:"10s"`
}

type GC struct {
	Interval time.Duration `env:"GC_INTERVAL" envDefault:"6h"`
	Grace    time.Duration `env:"GC_GRACE" envDefault:"2h"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type Config struct {
	Database    Database
	Meilisearch Meilisearch
	Scheduler   Scheduler
	GC          GC
	Log         Log
}

// Conf is the process-wide configuration, populated once by Init.
var Conf *Config

func Init() error {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, "failed to parse config from environment")
	}
	Conf = c
	return nil
}
