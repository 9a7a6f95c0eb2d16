// Package logger provides the harness logger. Commands log through
// charmbracelet/log; the same logger doubles as a slog handler so it can be
// handed to predicato, which logs through log/slog.
package logger

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// New creates a logger writing to w at the given level. Unknown level
// strings fall back to info.
func New(w io.Writer, level string) *charmlog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           lvl,
	})
}

// Slog wraps a charm logger as a *slog.Logger for libraries that expect one.
func Slog(l *charmlog.Logger) *slog.Logger {
	return slog.New(l)
}
