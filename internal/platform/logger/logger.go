package logger

import (
	"log/slog"
	"os"
)

// New returns the structured logger used across the service. Services receive
// it through options so tests can swap in a discard handler.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
