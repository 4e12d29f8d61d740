// Package logging provides the structured logger cmd/api/app.go builds for
// the Application; it is not an HTTP middleware. Reconstructed in the
// teacher's idiom: the teacher's own internal/logging package was not
// present in the retrieval pack, only its call site
// (logging.NewStructuredLogger).
package logging

import (
	"io"
	"log/slog"
)

// NewStructuredLogger builds a slog.Logger writing structured text records
// to w at the given minimum level, exactly as cmd/api/app.go configures the
// Application's logger.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
