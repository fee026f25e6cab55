package app

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/qrcraft/qrcraft/internal/tui"
)

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewTUILogger sends records to the TUI logs panel. Nothing is written to the
// terminal, which belongs to Bubble Tea.
func NewTUILogger(bus *tui.EventBus, level string) *slog.Logger {
	return slog.New(NewBusHandler(bus, ParseLevel(level)))
}

// NewConsoleLogger writes human-readable records to w, for long-running
// serve mode.
func NewConsoleLogger(w io.Writer, appName, level string) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
		Level:           log.Level(ParseLevel(level)),
	})
	return slog.New(handler)
}

// NewJSONLogger writes JSON records to w, for one-shot commands.
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
