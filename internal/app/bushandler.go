package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qrcraft/qrcraft/internal/tui"
)

// BusHandler is a slog.Handler that feeds the TUI logs panel. Attributes are
// flattened to key=value text; groups become dotted key prefixes.
type BusHandler struct {
	bus    *tui.EventBus
	level  slog.Leveler
	prefix string
	fields string
}

// NewBusHandler creates a handler publishing records at or above level.
func NewBusHandler(bus *tui.EventBus, level slog.Leveler) *BusHandler {
	return &BusHandler{bus: bus, level: level}
}

func (h *BusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *BusHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.fields)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	h.bus.Publish(tui.LogEvent{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Fields:  sb.String(),
	})
	return nil
}

func (h *BusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.fields)
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}
	h2 := *h
	h2.fields = sb.String()
	return &h2
}

func (h *BusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, p, ga)
		}
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	sb.WriteString(prefix + a.Key + "=" + val)
}
