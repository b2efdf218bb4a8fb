// Package metadata records who is calling: the client address and User-Agent
// end up on the request context for audit events and logs.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"storefront/pkg/requestcontext"
)

// ClientMetadata returns middleware that stores the caller's address and
// User-Agent on the request context. Forwarding headers are honored only when
// trustProxy is set; otherwise a client could spoof its own address.
func ClientMetadata(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), ClientIP(r, trustProxy), r.UserAgent())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP derives the caller's address. With trustProxy the leftmost
// X-Forwarded-For entry wins, then X-Real-IP; the connection address is the
// fallback either way.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
