package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers in priority order. CDN-set headers are checked before
// generic proxy headers since they are harder to spoof once the CDN
// terminates the connection.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP address for the request. Proxy headers
// are consulted in priority order before falling back to RemoteAddr.
// When no header carries a valid address, the host part of RemoteAddr
// is returned as-is.
func GetIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		if ip := parseHeader(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// parseHeader extracts the first valid address from a proxy header
// value. X-Forwarded-For may carry a comma-separated chain; the
// leftmost entry is the original client.
func parseHeader(value string) string {
	if value == "" {
		return ""
	}
	for _, part := range strings.Split(value, ",") {
		if ip := normalize(strings.TrimSpace(part)); ip != "" {
			return ip
		}
	}
	return ""
}

// normalize validates and canonicalizes an IP string. Unspecified
// addresses (0.0.0.0, ::) are rejected since they never identify a
// client.
func normalize(s string) string {
	ip := net.ParseIP(s)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
