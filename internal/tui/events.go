package tui

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LogEvent is one record for the logs panel.
type LogEvent struct {
	Time    time.Time
	Level   slog.Level
	Message string
	// Fields is pre-rendered as "key=value" pairs.
	Fields string
}

// EventBus fans log records out to subscribers. A subscriber that falls
// behind loses records; publishing never blocks.
type EventBus struct {
	mu      sync.RWMutex
	bufSize int
	subs    map[chan LogEvent]struct{}
	dropped atomic.Uint64
}

// NewEventBus creates a bus whose subscribers buffer bufSize records.
func NewEventBus(bufSize int) *EventBus {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &EventBus{
		bufSize: bufSize,
		subs:    make(map[chan LogEvent]struct{}),
	}
}

// Publish delivers e to every subscriber with room for it.
func (b *EventBus) Publish(e LogEvent) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel of records and a cancel func that detaches and
// closes it.
func (b *EventBus) Subscribe() (<-chan LogEvent, func()) {
	ch := make(chan LogEvent, b.bufSize)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Dropped counts records lost to slow subscribers.
func (b *EventBus) Dropped() uint64 {
	return b.dropped.Load()
}
