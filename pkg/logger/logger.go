package logger

import (
	"log"
	"log/slog"
)

// New returns a stdlib logger that writes through slog with a component attribute.
// It serves libraries that only accept printf-style loggers.
func New(base *slog.Logger, component string, level slog.Level) *log.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), level)
}
