// Package logging provides the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text-handler slog logger tagged with a component attribute.
func New(component string) *slog.Logger {
	return NewWithOutput(component, os.Stderr, slog.LevelInfo)
}

// NewWithOutput is New with an explicit sink and level, for tests and the
// watch loop.
func NewWithOutput(component string, w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}
