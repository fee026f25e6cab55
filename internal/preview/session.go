// Package preview holds the state of one QR preview and decides when it must
// be re-encoded.
//
// A Session is owned by a single loop (a Bubble Tea update loop or a
// WebSocket connection loop). Setters return a Request when an encode must
// start; the owner runs it off-loop and hands the Result back to Complete.
// Every request carries a sequence number and only the result of the newest
// request is ever applied, so a slow encode for old input can never replace
// the preview of newer input.
package preview

import (
	"strings"
	"time"

	"github.com/qrcraft/qrcraft/internal/qrcode"
)

// Limits bounds the render size.
type Limits struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Normalize clamps size to [Min, Max] and rounds it to the nearest step
// counted from Min, halfway values rounding up.
func (l Limits) Normalize(size int) int {
	if size < l.Min {
		size = l.Min
	}
	if size > l.Max {
		size = l.Max
	}
	if l.Step > 1 {
		offset := size - l.Min
		size = l.Min + (offset+l.Step/2)/l.Step*l.Step
		if size > l.Max {
			size -= l.Step
		}
	}
	return size
}

// Defaults seeds a new Session.
type Defaults struct {
	Payload    string
	Size       int
	Foreground string
	Background string
	Limits     Limits

	CopyAckWindow    time.Duration
	EncodeStallAfter time.Duration
	ExportFilename   string
}

// Input is the tuple every encode depends on.
type Input struct {
	Payload    string `json:"payload"`
	Size       int    `json:"size"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// Spec converts the input to an encoder spec.
func (in Input) Spec() qrcode.Spec {
	return qrcode.Spec{
		Payload:    in.Payload,
		Size:       in.Size,
		Foreground: in.Foreground,
		Background: in.Background,
	}
}

// Request asks the owner to encode Input.
type Request struct {
	Seq   uint64
	Input Input
}

// Result reports a finished encode.
type Result struct {
	Seq   uint64
	Image *qrcode.Image
	Err   error
}

// Outcome describes what Complete did with a result.
type Outcome int

const (
	OutcomeApplied Outcome = iota // image stored
	OutcomeFailed                 // encode failed, image kept
	OutcomeStale                  // superseded, ignored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	}
	return "unknown"
}

// Session is the mutable state of one preview.
type Session struct {
	input    Input
	limits   Limits
	rendered *qrcode.Image

	busy      bool
	busySince time.Time
	seq       uint64

	copiedAt   time.Time
	copyWindow time.Duration
	stallAfter time.Duration
	filename   string

	now func() time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session with no rendered image. Call Refresh to
// request the first encode.
func NewSession(d Defaults, opts ...Option) *Session {
	s := &Session{
		limits:     d.Limits,
		copyWindow: d.CopyAckWindow,
		stallAfter: d.EncodeStallAfter,
		filename:   d.ExportFilename,
		now:        time.Now,
	}
	if s.filename == "" {
		s.filename = "qr-code.png"
	}
	for _, opt := range opts {
		opt(s)
	}
	s.input = Input{
		Payload:    d.Payload,
		Size:       d.Limits.Normalize(d.Size),
		Foreground: d.Foreground,
		Background: d.Background,
	}
	return s
}

// Input returns the current input tuple.
func (s *Session) Input() Input { return s.input }

// Limits returns the size bounds.
func (s *Session) Limits() Limits { return s.limits }

// Rendered returns the image of the latest successful encode, or nil.
func (s *Session) Rendered() *qrcode.Image { return s.rendered }

// Busy reports whether the newest request is still in flight.
func (s *Session) Busy() bool { return s.busy }

// Seq returns the sequence number of the newest request.
func (s *Session) Seq() uint64 { return s.seq }

// Stalled reports whether the in-flight encode has outlived the stall bound.
func (s *Session) Stalled() bool {
	if !s.busy || s.stallAfter <= 0 {
		return false
	}
	return s.now().Sub(s.busySince) >= s.stallAfter
}

// SetPayload updates the payload.
func (s *Session) SetPayload(p string) (Request, bool) {
	if p == s.input.Payload {
		return Request{}, false
	}
	s.input.Payload = p
	return s.request()
}

// SetSize updates the render size after normalizing it to the limits.
func (s *Session) SetSize(size int) (Request, bool) {
	size = s.limits.Normalize(size)
	if size == s.input.Size {
		return Request{}, false
	}
	s.input.Size = size
	return s.request()
}

// StepSize moves the size by delta steps.
func (s *Session) StepSize(delta int) (Request, bool) {
	step := s.limits.Step
	if step < 1 {
		step = 1
	}
	return s.SetSize(s.input.Size + delta*step)
}

// SetForeground updates the foreground color. The value is not validated
// here; an unusable color surfaces as an encode failure.
func (s *Session) SetForeground(c string) (Request, bool) {
	if c == s.input.Foreground {
		return Request{}, false
	}
	s.input.Foreground = c
	return s.request()
}

// SetBackground updates the background color.
func (s *Session) SetBackground(c string) (Request, bool) {
	if c == s.input.Background {
		return Request{}, false
	}
	s.input.Background = c
	return s.request()
}

// Refresh requests an encode of the current input without changing it.
func (s *Session) Refresh() (Request, bool) {
	return s.request()
}

// request issues a new sequence number. A blank payload cancels any in-flight
// encode and clears the rendered image.
func (s *Session) request() (Request, bool) {
	s.seq++
	if strings.TrimSpace(s.input.Payload) == "" {
		s.busy = false
		s.rendered = nil
		return Request{}, false
	}
	s.busy = true
	s.busySince = s.now()
	return Request{Seq: s.seq, Input: s.input}, true
}

// Complete applies a finished encode. Results for anything but the newest
// request are dropped without touching state.
func (s *Session) Complete(res Result) (Outcome, *Notification) {
	if res.Seq != s.seq || !s.busy {
		return OutcomeStale, nil
	}
	s.busy = false
	if res.Err != nil || res.Image == nil {
		n := EncodeFailed()
		return OutcomeFailed, &n
	}
	s.rendered = res.Image
	return OutcomeApplied, nil
}
