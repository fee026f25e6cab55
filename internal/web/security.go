package web

import (
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
)

// IsLocalOnlyAddr reports whether addr binds only to loopback or localhost.
// Serve mode refuses other web binds unless tsnet fronts the server.
func IsLocalOnlyAddr(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	return isLoopbackHost(strings.TrimSpace(host))
}

func isLoopbackHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip, err := netip.ParseAddr(strings.Trim(host, "[]"))
	return err == nil && ip.IsLoopback()
}

func hostOnly(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}

// originChecker builds the WebSocket origin policy. A page may open the live
// socket when its origin host equals the request host, when both sides are
// loopback, or when the origin host is listed in trusted (for example the
// tailnet's MagicDNS name). Clients that send no Origin are not browsers and
// are let through.
func originChecker(trusted []string) func(*http.Request) bool {
	allow := make(map[string]bool, len(trusted))
	for _, h := range trusted {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		originHost := strings.ToLower(u.Hostname())
		reqHost := strings.ToLower(hostOnly(strings.TrimSpace(r.Host)))
		switch {
		case originHost == "" || reqHost == "":
			return false
		case originHost == reqHost, allow[originHost]:
			return true
		}
		return isLoopbackHost(originHost) && isLoopbackHost(reqHost)
	}
}
