package core

import "github.com/sirupsen/logrus"

// NewLogger constructs a structured logger at the given level ("debug",
// "info", "warn", "error"); an unrecognized or empty level falls back to
// info, matching the teacher's storage.go wiring of a single injected
// *logrus.Logger rather than a package-global singleton.
func NewLogger(level string) *logrus.Logger {
	lg := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	lg.SetLevel(lvl)
	lg.SetFormatter(&logrus.JSONFormatter{})
	return lg
}
