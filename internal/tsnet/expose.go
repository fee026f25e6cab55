package tsnet

import (
	"log/slog"
	"net"
)

// Surface takes over an already bound listener and serves it in the
// background.
type Surface interface {
	Serve(ln net.Listener) error
}

// Endpoint maps a surface onto a tailnet address such as ":22".
type Endpoint struct {
	Name    string
	Addr    string
	Surface Surface
}

// Listener hands out listeners on a network; *Node satisfies it.
type Listener interface {
	Listen(network, addr string) (net.Listener, error)
}

// Expose binds every endpoint on l. An endpoint that fails to bind is logged
// and skipped so the others still come up. It returns the names of the live
// endpoints.
func Expose(l Listener, endpoints []Endpoint, logger *slog.Logger) []string {
	var live []string
	for _, ep := range endpoints {
		ln, err := l.Listen("tcp", ep.Addr)
		if err != nil {
			logger.Error("tsnet listener failed", "endpoint", ep.Name, "addr", ep.Addr, "error", err)
			continue
		}
		if err := ep.Surface.Serve(ln); err != nil {
			ln.Close()
			logger.Error("tsnet serve failed", "endpoint", ep.Name, "error", err)
			continue
		}
		live = append(live, ep.Name)
	}
	return live
}
