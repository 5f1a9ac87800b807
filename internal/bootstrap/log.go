package bootstrap

import (
	"io"
	"os"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

func InitLog() {
	c := conf.Conf.Log

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	utils.Log.SetLevel(level)
	utils.Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var out io.Writer = os.Stderr
	if c.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   true,
		})
	}
	utils.Log.SetOutput(out)
}
