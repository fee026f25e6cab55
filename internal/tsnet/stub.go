//go:build !tsnet

package tsnet

import (
	"errors"
	"log/slog"
	"net"
)

var errNotCompiled = errors.New("tsnet support not compiled; rebuild with: go build -tags tsnet")

// Config holds Tailscale tsnet configuration.
type Config struct {
	Hostname string
	StateDir string
	Logger   *slog.Logger
}

// Node is a placeholder in builds without the tsnet tag.
type Node struct{}

// New always fails without the tsnet build tag.
func New(cfg Config) (*Node, error) {
	return nil, errNotCompiled
}

func (n *Node) Listen(network, addr string) (net.Listener, error) {
	return nil, errNotCompiled
}

func (n *Node) Close() error {
	return nil
}

// Available reports whether tsnet support is compiled in.
func Available() bool {
	return false
}
