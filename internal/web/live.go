package web

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/export"
	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/qrcode"
)

const maxClientMessage = 16 << 10

// clientMsg is a frame from the page.
//
// Protocol:
//   - {"type":"set","field":"payload|size|foreground|background","value":"..."}
//   - {"type":"copied","error":""} after the page wrote the payload to the
//     clipboard; a non-empty error reports a failed write
//   - {"type":"download","format":"png|svg"} exports the code on screen
type clientMsg struct {
	Type   string `json:"type"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
	Format string `json:"format,omitempty"`
}

// serverMsg is a frame to the page. Type is one of state, preview, cleared,
// notification, copy or download. A download frame carries the file as a
// data URL and is always followed by a notification.
type serverMsg struct {
	Type         string                `json:"type"`
	Seq          uint64                `json:"seq,omitempty"`
	Busy         bool                  `json:"busy"`
	Stalled      bool                  `json:"stalled,omitempty"`
	Input        *preview.Input        `json:"input,omitempty"`
	Limits       *preview.Limits       `json:"limits,omitempty"`
	DataURL      string                `json:"dataUrl,omitempty"`
	Notification *preview.Notification `json:"notification,omitempty"`
	CopyAck      bool                  `json:"copyAck,omitempty"`
	Filename     string                `json:"filename,omitempty"`
}

func (h *handlers) live(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ls := &liveSession{
		ws:      ws,
		session: preview.NewSession(h.cfg.Defaults),
		enc:       h.cfg.Encoder,
		exp:       h.cfg.Exporter,
		margin:    h.cfg.Margin,
		level:     h.cfg.Level,
		results:   make(chan preview.Result, 4),
		downloads: make(chan download, 1),
		logger:    h.logger.With("session", uuid.NewString()),
		stall:     h.cfg.Defaults.EncodeStallAfter,
	}
	ls.logger.Info("live session started", "remote", r.RemoteAddr)
	ls.run(r.Context())
	ls.logger.Info("live session ended")
}

// liveSession owns one preview session for one WebSocket connection. The
// run loop is the only goroutine that touches the session or writes to the
// socket; encodes run in their own goroutines and report back on results.
type liveSession struct {
	ws        *websocket.Conn
	session   *preview.Session
	enc       preview.Encoder
	exp       preview.Exporter
	margin    int
	level     qrcode.Level
	results   chan preview.Result
	downloads chan download
	logger    *slog.Logger
	stall     time.Duration
}

// download is a finished export on its way back to the run loop.
type download struct {
	filename string
	mime     string
	data     []byte
	err      error
}

func (l *liveSession) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	incoming := make(chan clientMsg)
	go l.readLoop(ctx, cancel, incoming)

	stallTimer := time.NewTimer(time.Hour)
	stallTimer.Stop()
	ackTimer := time.NewTimer(time.Hour)
	ackTimer.Stop()
	defer stallTimer.Stop()
	defer ackTimer.Stop()

	in, limits := l.session.Input(), l.session.Limits()
	if err := l.send(serverMsg{Type: "state", Input: &in, Limits: &limits}); err != nil {
		return
	}
	l.start(ctx, stallTimer, l.session.Refresh)

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-incoming:
			switch msg.Type {
			case "set":
				l.start(ctx, stallTimer, func() (preview.Request, bool) { return l.apply(msg) })
			case "copied":
				var copyErr error
				if msg.Error != "" {
					copyErr = clientError(msg.Error)
				}
				n, err := l.session.CopyFinished(copyErr)
				if preview.IsClipboardFailure(err) {
					l.logger.Warn("clipboard write failed", "error", err)
					continue
				}
				ackTimer.Reset(l.session.CopyAckRemaining())
				if l.send(serverMsg{Type: "copy", CopyAck: true}) != nil || l.notify(n) != nil {
					return
				}
			case "download":
				l.export(ctx, msg.Format)
			default:
				l.logger.Debug("unknown client message", "type", msg.Type)
			}

		case d := <-l.downloads:
			n := preview.DownloadFinished(d.err)
			if d.err != nil {
				l.logger.Error("download failed", "file", d.filename, "error", d.err)
			} else {
				url := "data:" + d.mime + ";base64," + base64.StdEncoding.EncodeToString(d.data)
				if l.send(serverMsg{Type: "download", Filename: d.filename, DataURL: url}) != nil {
					return
				}
				l.logger.Info("download sent", "file", d.filename, "bytes", len(d.data))
			}
			if l.notify(&n) != nil {
				return
			}

		case res := <-l.results:
			outcome, n := l.session.Complete(res)
			switch outcome {
			case preview.OutcomeStale:
				l.logger.Debug("encode result superseded", "seq", res.Seq, "latest", l.session.Seq())
			case preview.OutcomeFailed:
				l.logger.Error("encode failed", "seq", res.Seq, "error", res.Err)
				if l.send(serverMsg{Type: "state", Seq: l.session.Seq()}) != nil || l.notify(n) != nil {
					return
				}
			case preview.OutcomeApplied:
				stallTimer.Stop()
				url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Image.PNG)
				if l.send(serverMsg{Type: "preview", Seq: res.Seq, DataURL: url}) != nil {
					return
				}
			}

		case <-stallTimer.C:
			if l.session.Stalled() {
				l.logger.Warn("encode stalled", "seq", l.session.Seq())
				if l.send(serverMsg{Type: "state", Seq: l.session.Seq(), Busy: true, Stalled: true}) != nil {
					return
				}
			}

		case <-ackTimer.C:
			if l.send(serverMsg{Type: "copy", CopyAck: l.session.CopyAcknowledged()}) != nil {
				return
			}
		}
	}
}

// apply routes a set frame to the matching session setter.
func (l *liveSession) apply(msg clientMsg) (preview.Request, bool) {
	switch msg.Field {
	case "payload":
		return l.session.SetPayload(msg.Value)
	case "size":
		n, err := strconv.Atoi(msg.Value)
		if err != nil {
			l.logger.Debug("ignoring non-numeric size", "value", msg.Value)
			return preview.Request{}, false
		}
		return l.session.SetSize(n)
	case "foreground":
		return l.session.SetForeground(msg.Value)
	case "background":
		return l.session.SetBackground(msg.Value)
	}
	l.logger.Debug("unknown field", "field", msg.Field)
	return preview.Request{}, false
}

// start runs mutate and, when it issues a request, encodes off-loop.
func (l *liveSession) start(ctx context.Context, stallTimer *time.Timer, mutate func() (preview.Request, bool)) {
	before := l.session.Seq()
	req, ok := mutate()
	if !ok {
		if l.session.Seq() != before && l.session.Rendered() == nil {
			// A blank payload cancelled the preview.
			stallTimer.Stop()
			_ = l.send(serverMsg{Type: "cleared", Seq: l.session.Seq()})
		}
		return
	}
	_ = l.send(serverMsg{Type: "state", Seq: req.Seq, Busy: true})
	if l.stall > 0 {
		stallTimer.Reset(l.stall)
	}
	go func() {
		res := preview.Run(ctx, l.enc, req)
		select {
		case l.results <- res:
		case <-ctx.Done():
		}
	}()
}

// export rasterizes the rendered code off-loop. Without a rendered code it
// does nothing.
func (l *liveSession) export(ctx context.Context, format string) {
	job, ok := l.session.ExportJob()
	if !ok {
		l.logger.Debug("download ignored, nothing rendered")
		return
	}
	go func() {
		d := download{filename: job.Filename, mime: "image/png"}
		switch format {
		case "svg":
			spec := job.Image.Spec
			d.filename = strings.TrimSuffix(job.Filename, ".png") + ".svg"
			d.mime = "image/svg+xml"
			svg, err := export.SVG(spec.Payload, spec.Size, l.margin, l.level, spec.Foreground, spec.Background)
			d.data = []byte(svg)
			if err != nil {
				d.err = qrerrors.NewExportFailure(err)
			}
		default:
			data, err := l.exp.Export(ctx, job.Image)
			d.data = data
			if err != nil {
				d.err = qrerrors.NewExportFailure(err)
			}
		}
		select {
		case l.downloads <- d:
		case <-ctx.Done():
		}
	}()
}

func (l *liveSession) readLoop(ctx context.Context, cancel context.CancelFunc, out chan<- clientMsg) {
	defer cancel()
	l.ws.SetReadLimit(maxClientMessage)
	for {
		var msg clientMsg
		if err := l.ws.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (l *liveSession) send(msg serverMsg) error {
	_ = l.ws.SetWriteDeadline(deadlineForWrite())
	err := l.ws.WriteJSON(msg)
	_ = l.ws.SetWriteDeadline(noDeadline())
	if err != nil {
		l.logger.Debug("websocket write failed", "error", err)
	}
	return err
}

func (l *liveSession) notify(n *preview.Notification) error {
	if n == nil {
		return nil
	}
	return l.send(serverMsg{Type: "notification", Notification: n})
}

type clientError string

func (e clientError) Error() string { return string(e) }
