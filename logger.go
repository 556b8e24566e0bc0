package gridflow

import (
	"log/slog"

	"github.com/gogpu/gridflow/internal/logging"
)

// SetLogger configures the logger for gridflow and all its sub-packages.
// By default, gridflow produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default. Builders and compilers pick up the logger when they are
// created.
//
// Log levels used by gridflow:
//   - [slog.LevelDebug]: grid registrations, per-task moments, shader cache misses
//   - [slog.LevelInfo]: finished flows, instance creation
//   - [slog.LevelWarn]: suspicious vertex data, shader compile failures
//
// Example:
//
//	gridflow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by gridflow. It is never nil.
func Logger() *slog.Logger {
	return logging.Logger()
}

// loggerSetter is implemented by device providers that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes l to v if v accepts a logger.
func propagateLogger(v any, l *slog.Logger) {
	if ls, ok := v.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
