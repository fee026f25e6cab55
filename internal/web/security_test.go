package web

import (
	"net/http"
	"testing"
)

func TestIsLocalOnlyAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{addr: "127.0.0.1:8080", want: true},
		{addr: "localhost:8080", want: true},
		{addr: "LOCALHOST:8080", want: true},
		{addr: "[::1]:8080", want: true},
		{addr: "127.0.0.1", want: true},
		{addr: "0.0.0.0:8080", want: false},
		{addr: ":8080", want: false},
		{addr: "10.0.0.1:8080", want: false},
		{addr: "example.com:80", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.addr, func(t *testing.T) {
			if got := IsLocalOnlyAddr(tc.addr); got != tc.want {
				t.Fatalf("IsLocalOnlyAddr(%q) = %v, want %v", tc.addr, got, tc.want)
			}
		})
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"qrcraft.tail1234.ts.net"})

	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{name: "same host", origin: "http://localhost:8080", host: "localhost:8080", want: true},
		{name: "missing origin", origin: "", host: "localhost:8080", want: true},
		{name: "loopback pair", origin: "http://127.0.0.1:3000", host: "[::1]:8080", want: true},
		{name: "trusted tailnet name", origin: "https://qrcraft.tail1234.ts.net", host: "qrcraft", want: true},
		{name: "case insensitive", origin: "http://QRCRAFT", host: "qrcraft", want: true},
		{name: "different host", origin: "https://evil.example.com", host: "localhost:8080", want: false},
		{name: "loopback origin to remote host", origin: "http://127.0.0.1", host: "qrcraft", want: false},
		{name: "garbage origin", origin: "://", host: "localhost:8080", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &http.Request{Header: http.Header{}, Host: tc.host}
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := check(r); got != tc.want {
				t.Fatalf("origin %q host %q = %v, want %v", tc.origin, tc.host, got, tc.want)
			}
		})
	}
}
