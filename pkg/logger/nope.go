package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a logger that discards everything. Packages use it as their
// default until a real logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
