package tui

import (
	"log/slog"
	"strings"
)

const maxLogEntries = 200

// logsModel keeps the most recent records and shows the tail that fits.
type logsModel struct {
	entries []LogEvent
	width   int
	height  int
}

func (l *logsModel) addEntry(e LogEvent) {
	l.entries = append(l.entries, e)
	if n := len(l.entries); n > maxLogEntries {
		l.entries = append(l.entries[:0:0], l.entries[n-maxLogEntries:]...)
	}
}

func (l logsModel) View() string {
	rows := max(l.height-2, 1)
	tail := l.entries
	if len(tail) > rows {
		tail = tail[len(tail)-rows:]
	}

	lines := make([]string, 0, rows+1)
	lines = append(lines, panelTitleStyle.Render("Logs"))
	for _, e := range tail {
		lines = append(lines, l.line(e))
	}
	if len(tail) == 0 {
		lines = append(lines, logTimestamp.Render("  nothing logged yet"))
	}
	return panelStyle.Width(l.width).Height(l.height).Render(strings.Join(lines, "\n"))
}

func (l logsModel) line(e LogEvent) string {
	ts := logTimestamp.Render(e.Time.Format("15:04:05"))
	text := e.Message
	if e.Fields != "" {
		text += " " + e.Fields
	}
	// time, level and spacing take 17 cells
	return " " + ts + " " + levelBadge(e.Level) + " " + truncate(text, l.width-17)
}

func levelBadge(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return logError.Render("ERR")
	case level >= slog.LevelWarn:
		return logWarn.Render("WRN")
	case level >= slog.LevelInfo:
		return logInfo.Render("INF")
	default:
		return logDebug.Render("DBG")
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
