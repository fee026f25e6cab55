package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/export"
	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/share"
)

type handlers struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	f, err := staticFS.Open("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	_, _ = io.Copy(w, f)
}

func (h *handlers) defaults(w http.ResponseWriter, _ *http.Request) {
	d := h.cfg.Defaults
	writeJSON(w, http.StatusOK, map[string]any{
		"input": preview.Input{
			Payload:    d.Payload,
			Size:       d.Limits.Normalize(d.Size),
			Foreground: d.Foreground,
			Background: d.Background,
		},
		"limits": d.Limits,
	})
}

// inputFromQuery reads text, size, fg and bg, falling back to the defaults
// for anything absent.
func (h *handlers) inputFromQuery(r *http.Request) (preview.Input, error) {
	d := h.cfg.Defaults
	q := r.URL.Query()
	in := preview.Input{
		Payload:    d.Payload,
		Size:       d.Size,
		Foreground: d.Foreground,
		Background: d.Background,
	}
	if q.Has("text") {
		in.Payload = q.Get("text")
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, qrerrors.NewInvalidInput("size must be an integer")
		}
		in.Size = n
	}
	in.Size = d.Limits.Normalize(in.Size)
	if v := q.Get("fg"); v != "" {
		in.Foreground = v
	}
	if v := q.Get("bg"); v != "" {
		in.Background = v
	}
	return in, nil
}

func (h *handlers) qrPNG(w http.ResponseWriter, r *http.Request) {
	in, err := h.inputFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res := preview.Run(r.Context(), h.cfg.Encoder, preview.Request{Input: in})
	if res.Err != nil {
		h.logger.Warn("encode failed", "error", res.Err)
		writeError(w, res.Err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(res.Image.PNG)
}

func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	in, err := h.inputFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res := preview.Run(r.Context(), h.cfg.Encoder, preview.Request{Input: in})
	if res.Err != nil {
		h.logger.Warn("encode failed", "error", res.Err)
		writeError(w, res.Err)
		return
	}
	data, err := h.cfg.Exporter.Export(r.Context(), res.Image)
	if err != nil {
		err = qrerrors.NewExportFailure(err)
		h.logger.Error("export failed", "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", attachment(h.filename()))
	_, _ = w.Write(data)
}

func (h *handlers) downloadSVG(w http.ResponseWriter, r *http.Request) {
	in, err := h.inputFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := export.SVG(in.Payload, in.Size, h.cfg.Margin, h.cfg.Level, in.Foreground, in.Background)
	if err != nil {
		err = qrerrors.NewEncodeFailure(err)
		h.logger.Warn("svg export failed", "error", err)
		writeError(w, err)
		return
	}
	name := strings.TrimSuffix(h.filename(), ".png") + ".svg"
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", attachment(name))
	_, _ = io.WriteString(w, svg)
}

func (h *handlers) share(w http.ResponseWriter, r *http.Request) {
	p, err := share.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		h.logger.Error("share rejected", "error", err)
		writeError(w, err)
		return
	}
	u, err := share.URL(p, r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

func (h *handlers) filename() string {
	if h.cfg.Defaults.ExportFilename != "" {
		return h.cfg.Defaults.ExportFilename
	}
	return "qr-code.png"
}

func attachment(name string) string {
	return `attachment; filename="` + name + `"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and a {"error","message"} body.
func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": "INTERNAL", "message": err.Error()}
	var qErr *qrerrors.QRError
	if errors.As(err, &qErr) {
		body["error"] = string(qErr.Code)
		body["message"] = qErr.Message
	}
	writeJSON(w, qrerrors.StatusOf(err), body)
}
