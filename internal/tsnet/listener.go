//go:build tsnet

package tsnet

import (
	"fmt"
	"log/slog"
	"net"

	"tailscale.com/tsnet"
)

// Config holds Tailscale tsnet configuration.
type Config struct {
	Hostname string // tailnet machine name, e.g. "qrcraft"
	StateDir string
	Logger   *slog.Logger
}

// Node is an embedded tailnet machine that serves qrcraft's surfaces.
type Node struct {
	server *tsnet.Server
}

// New creates a tailnet node. It joins the tailnet lazily, on the first Listen.
func New(cfg Config) (*Node, error) {
	if cfg.Hostname == "" {
		return nil, fmt.Errorf("tsnet: hostname required")
	}
	srv := &tsnet.Server{
		Hostname: cfg.Hostname,
		Dir:      cfg.StateDir,
	}
	if cfg.Logger != nil {
		logger := cfg.Logger
		srv.Logf = func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}
		// Login URLs go through UserLogf and must be visible.
		srv.UserLogf = func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		}
	}
	return &Node{server: srv}, nil
}

// Listen returns a listener bound to the node's tailnet address.
func (n *Node) Listen(network, addr string) (net.Listener, error) {
	return n.server.Listen(network, addr)
}

// Close leaves the tailnet and closes every listener handed out.
func (n *Node) Close() error {
	return n.server.Close()
}

// Available reports whether tsnet support is compiled in.
func Available() bool {
	return true
}
