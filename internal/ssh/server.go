package ssh

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/qrcraft/qrcraft/internal/clipboard"
	"github.com/qrcraft/qrcraft/internal/share"
	"github.com/qrcraft/qrcraft/internal/tui"
)

// Config holds SSH server configuration.
type Config struct {
	Addr       string // listen address, e.g. ":2222"
	HostKeyDir string // directory to store/read host keys
	Logger     *slog.Logger

	// Deps is the template for every session's model. Clipboard and Opener
	// are replaced per connection.
	Deps tui.Deps
}

// Server wraps a Wish SSH server that serves Bubble Tea TUI sessions.
type Server struct {
	srv    *ssh.Server
	logger *slog.Logger
}

// New creates a new SSH server. Each SSH connection gets its own TUI model
// and its own preview session.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Addr),
		wish.WithHostKeyPath(filepath.Join(cfg.HostKeyDir, "ssh_host_key")),
		wish.WithMiddleware(
			bm.Middleware(sessionHandler(cfg)),
			logging.MiddlewareWithLogger(slogAdapter{cfg.Logger}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("wish server: %w", err)
	}

	return &Server{srv: srv, logger: cfg.Logger}, nil
}

// sessionHandler builds the model for one connection. Copies go to the
// client's terminal through OSC 52 and share links are shown instead of
// opened, since the server's clipboard and browser are not the user's.
func sessionHandler(cfg Config) bm.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()
		id := uuid.NewString()

		deps := cfg.Deps
		deps.Clipboard = clipboard.NewOSC52(s)
		deps.Opener = &share.LinkRecorder{}
		deps.Logger = cfg.Logger.With("session", id, "user", s.User())
		deps.Bus = nil

		deps.Logger.Info("ssh session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
		model := tui.New(deps)
		model.SetSize(pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

// Start begins accepting SSH connections on the configured address.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("ssh listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts SSH connections on the given listener (e.g. from tsnet).
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("SSH server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("SSH server stopped", "error", err)
		}
	}()
	return nil
}

// Stop closes the listeners and every open session.
func (s *Server) Stop() error {
	return s.srv.Close()
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// slogAdapter lets wish's logging middleware write through slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Printf(format string, args ...any) {
	a.logger.Info(fmt.Sprintf(format, args...))
}
