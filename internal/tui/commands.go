package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qrcraft/qrcraft/internal/clipboard"
	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/share"
)

// Results of off-loop work, applied on the update loop.
type (
	encodeResultMsg preview.Result

	copyResultMsg struct{ err error }

	exportResultMsg struct {
		path string
		err  error
	}

	shareResultMsg struct {
		platform share.Platform
		url      string
		err      error
	}

	// stallCheckMsg fires once the stall bound of request seq has passed.
	stallCheckMsg struct{ seq uint64 }

	// copyAckExpiredMsg re-renders when the copy acknowledgement lapses.
	copyAckExpiredMsg struct{}

	// eventMsg carries a log record into the message loop.
	eventMsg LogEvent
)

var errNoClipboard = errors.New("no clipboard available")

func encodeCmd(enc preview.Encoder, req preview.Request) tea.Cmd {
	return func() tea.Msg {
		return encodeResultMsg(preview.Run(context.Background(), enc, req))
	}
}

func stallCmd(after time.Duration, seq uint64) tea.Cmd {
	if after <= 0 {
		return nil
	}
	return tea.Tick(after, func(time.Time) tea.Msg {
		return stallCheckMsg{seq: seq}
	})
}

func copyCmd(w clipboard.Writer, text string) tea.Cmd {
	return func() tea.Msg {
		if w == nil {
			return copyResultMsg{err: errNoClipboard}
		}
		return copyResultMsg{err: w.WriteAll(text)}
	}
}

func exportCmd(job preview.ExportJob, exp preview.Exporter, saver preview.Saver) tea.Cmd {
	return func() tea.Msg {
		path, err := job.Run(context.Background(), exp, saver)
		return exportResultMsg{path: path, err: err}
	}
}

func shareCmd(opener share.Opener, p share.Platform, payload string) tea.Cmd {
	return func() tea.Msg {
		url, err := share.NewSharer(opener).Share(p, payload)
		return shareResultMsg{platform: p, url: url, err: err}
	}
}

func listenForEvents(sub <-chan LogEvent) tea.Cmd {
	return func() tea.Msg {
		if sub == nil {
			return nil
		}
		e, ok := <-sub
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}
