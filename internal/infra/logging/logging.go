// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// SetupJSON installs a JSON slog handler at the given level as the default
// logger. Call once at startup, before anything logs.
func SetupJSON(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
