// Package clipboard writes text to the user's clipboard.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/qrcraft/qrcraft/internal/retry"
)

// Writer copies text to a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System uses the local OS clipboard (pbcopy, xclip, wl-copy, ...).
type System struct{}

// systemWriteAll is swapped in tests.
var systemWriteAll = clipboard.WriteAll

// WriteAll implements Writer.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("system clipboard unsupported on this platform")
	}
	if err := systemWriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal on the other end of w to set its clipboard. It
// works over SSH, where the OS clipboard belongs to the wrong machine.
type OSC52 struct {
	w io.Writer
}

// NewOSC52 creates an OSC52 writer. Inside tmux or screen the sequence is
// wrapped in the matching passthrough.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w}
}

// WriteAll implements Writer.
func (o *OSC52) WriteAll(text string) error {
	seq := osc52.New(text)
	term := os.Getenv("TERM")
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(term, "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.w); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// Retrying retries a Writer whose backend fails transiently, such as xclip
// racing another selection owner.
type Retrying struct {
	w      Writer
	policy retry.Policy
}

// WithRetry wraps w with a short backoff: attempts tries, 50ms doubling.
func WithRetry(w Writer, attempts int) *Retrying {
	return &Retrying{w: w, policy: retry.Policy{
		Attempts: attempts,
		Base:     50 * time.Millisecond,
		Max:      400 * time.Millisecond,
	}}
}

// WriteAll implements Writer.
func (r *Retrying) WriteAll(text string) error {
	return retry.Do(context.Background(), r.policy, func() error {
		return r.w.WriteAll(text)
	})
}
