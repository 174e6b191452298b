// Package clientip resolves the real client IP address of an HTTP
// request behind proxies, load balancers, and CDNs.
//
// Headers are checked in priority order (CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For, X-Real-IP) before falling back
// to the connection's RemoteAddr. Every candidate is validated with
// net.ParseIP; malformed entries and unspecified addresses are
// skipped. X-Forwarded-For chains resolve to the leftmost valid
// entry, which is the original client.
//
//	ip := clientip.GetIP(r)
package clientip
