package telemetry

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// quietLevel is above every level slog reports with.
const quietLevel = slog.LevelError + 4

// InitSlog sets the default logger. Nothing is logged unless verbose is set,
// failures reach the user through the returned error instead.
func InitSlog(w io.Writer, verbose bool) {
	level := quietLevel
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}
