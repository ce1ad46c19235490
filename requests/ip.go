package requests

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientIPKey struct{}

// ResolveClientIP returns the address of the client that sent r.
// X-Forwarded-For and X-Real-IP are only read when trustProxy is set:
// any client can send them, so they are meaningful only behind a
// reverse proxy that overwrites them.
func ResolveClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
			return xRealIP
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithClientIP returns a shallow copy of r carrying ip for ClientIP
func WithClientIP(r *http.Request, ip string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip))
}

// ClientIP returns the address stored by WithClientIP, or the RemoteAddr
// host when none was stored.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ResolveClientIP(r, false)
}
