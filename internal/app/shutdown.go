package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Shutdown coordinates graceful shutdown of serve-mode components.
type Shutdown struct {
	logger  *slog.Logger
	once    sync.Once
	mu      sync.Mutex
	closers []namedCloser
}

type namedCloser struct {
	name string
	fn   func() error
}

// NewShutdown creates an empty coordinator.
func NewShutdown(logger *slog.Logger) *Shutdown {
	return &Shutdown{logger: logger}
}

// AddCloser registers a function to be called during shutdown, in LIFO order.
func (s *Shutdown) AddCloser(name string, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, namedCloser{name: name, fn: fn})
}

// Wait blocks until ctx is done or the process receives a termination
// signal.
func (s *Shutdown) Wait(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		s.logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}
}

// Run calls every registered closer once.
func (s *Shutdown) Run() {
	s.once.Do(func() {
		s.logger.Info("shutting down...")

		s.mu.Lock()
		closers := make([]namedCloser, len(s.closers))
		copy(closers, s.closers)
		s.mu.Unlock()

		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].fn(); err != nil {
				s.logger.Error("close failed", "component", closers[i].name, "error", err)
			}
		}

		s.logger.Info("shutdown complete")
	})
}
