package routing

import (
	"net/http"

	"github.com/daddykotex/pdf-edit-bulk/requests"
)

// ClientIP resolves the client address once per request for the wrappers
// and handlers after it. Set TrustProxy only behind a reverse proxy that
// overwrites X-Forwarded-For.
type ClientIP struct {
	TrustProxy bool
}

func (c ClientIP) Wrap(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(w, requests.WithClientIP(r, requests.ResolveClientIP(r, c.TrustProxy)))
	})
}
