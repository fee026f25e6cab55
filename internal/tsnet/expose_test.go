package tsnet

import (
	"errors"
	"log/slog"
	"net"
	"testing"
)

type fakeListener struct {
	fail map[string]bool
	got  []string
}

func (f *fakeListener) Listen(network, addr string) (net.Listener, error) {
	if f.fail[addr] {
		return nil, errors.New("port in use")
	}
	f.got = append(f.got, addr)
	return net.Listen("tcp", "127.0.0.1:0")
}

type fakeSurface struct {
	ln  net.Listener
	err error
}

func (s *fakeSurface) Serve(ln net.Listener) error {
	if s.err != nil {
		return s.err
	}
	s.ln = ln
	return nil
}

func TestExposeBindsEveryEndpoint(t *testing.T) {
	fl := &fakeListener{}
	sshSurface, webSurface := &fakeSurface{}, &fakeSurface{}

	live := Expose(fl, []Endpoint{
		{Name: "ssh", Addr: ":22", Surface: sshSurface},
		{Name: "web", Addr: ":80", Surface: webSurface},
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(func() {
		sshSurface.ln.Close()
		webSurface.ln.Close()
	})

	if len(live) != 2 || live[0] != "ssh" || live[1] != "web" {
		t.Fatalf("live = %v", live)
	}
	if sshSurface.ln == nil || webSurface.ln == nil {
		t.Fatal("surfaces did not receive listeners")
	}
}

func TestExposeSkipsFailedEndpoints(t *testing.T) {
	fl := &fakeListener{fail: map[string]bool{":22": true}}
	broken := &fakeSurface{err: errors.New("closed")}
	webSurface := &fakeSurface{}

	live := Expose(fl, []Endpoint{
		{Name: "ssh", Addr: ":22", Surface: &fakeSurface{}},
		{Name: "metrics", Addr: ":9100", Surface: broken},
		{Name: "web", Addr: ":80", Surface: webSurface},
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(func() { webSurface.ln.Close() })

	if len(live) != 1 || live[0] != "web" {
		t.Fatalf("live = %v, want [web]", live)
	}
}

func TestStubReportsAvailability(t *testing.T) {
	n, err := New(Config{Hostname: "qrcraft"})
	if Available() {
		if err != nil || n == nil {
			t.Fatalf("New: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatal("expected error without tsnet support")
	}
}
