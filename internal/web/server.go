package web

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/qrcode"
)

//go:embed static
var staticFS embed.FS

// Config holds web server configuration.
type Config struct {
	Addr     string // HTTP listen address, e.g. "127.0.0.1:8080"
	Logger   *slog.Logger
	Defaults preview.Defaults
	Encoder  preview.Encoder
	Exporter preview.Exporter
	Margin   int // quiet zone of SVG downloads, in modules
	Level    qrcode.Level

	// TrustedOrigins lists extra page hosts allowed to open the live socket.
	TrustedOrigins []string
}

// Server serves the preview page, the image endpoints and the live preview
// socket.
type Server struct {
	httpSrv *http.Server
	cfg     Config
}

// New creates a new web server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
		cfg: cfg,
	}
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	h := &handlers{
		cfg:      cfg,
		logger:   cfg.Logger,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(cfg.TrustedOrigins)},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Handle("/static/*", http.FileServerFS(staticFS))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/defaults", h.defaults)
	r.Get("/qr.png", h.qrPNG)
	r.Get("/download", h.download)
	r.Get("/download.svg", h.downloadSVG)
	r.Get("/share/{platform}", h.share)
	r.Get("/ws", h.live)
	return r
}

// Start begins serving HTTP on the configured address.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve begins serving HTTP on the given listener (e.g. from tsnet).
func (s *Server) Serve(ln net.Listener) error {
	s.cfg.Logger.Info("web server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.Error("web server stopped", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
