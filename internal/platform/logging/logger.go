// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/xRiceFarmer/bloglist-client/internal/platform/correlation"
)

// InitLogger initializes the default logger with the specified level and format.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
//
// Logs go to stderr so they never interleave with the rendered list on stdout.
func InitLogger(level, format string) {
	slog.SetDefault(NewLogger(os.Stderr, level, format))
}

// NewLogger builds a logger writing to w. Split out so tests can capture output.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(correlation.NewHandler(handler))
}
