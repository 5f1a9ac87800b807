package utils

import (
	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Output and level are configured
// during bootstrap; until then it writes to stderr with defaults.
var Log = logrus.New()
