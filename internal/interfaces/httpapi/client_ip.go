package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Checked in order; the socket address is the fallback.
var clientIPHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

func resolveClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip := normalizeIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}
	return normalizeIP(r.RemoteAddr)
}

// normalizeIP takes the first hop of a forwarded list, drops any port and
// unmaps IPv4-in-IPv6 addresses. Anything unparsable yields "".
func normalizeIP(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	value := strings.TrimSpace(first)
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}
