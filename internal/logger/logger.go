// Package logger provides the shared structured logger for rltmarket.
package logger

import (
	"log/slog"
	"os"
)

// Logger is the process-wide logger. Commands may replace the handler via
// SetVerbose before any pipeline work starts.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetVerbose lowers the log level to debug.
func SetVerbose() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
