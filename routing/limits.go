package routing

import (
	"log"
	"net/http"
	"time"

	"github.com/daddykotex/pdf-edit-bulk/locks/keyonlylocks"
	"github.com/daddykotex/pdf-edit-bulk/requests"
	"github.com/daddykotex/pdf-edit-bulk/responses"
	"github.com/daddykotex/pdf-edit-bulk/throttle"
)

// MaxBytes caps the request body size
type MaxBytes int64

func (m MaxBytes) Wrap(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, int64(m))
		}
		inner.ServeHTTP(w, r)
	})
}

// Throttle rejects clients over their limit with 429.
// Limiter failures let the request through.
type Throttle struct {
	Limiter throttle.Limiter
	Now     func() time.Time
}

func (t Throttle) Wrap(inner http.Handler) http.Handler {
	now := t.Now
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := requests.ClientIP(r)
		ok, err := t.Limiter.Allow(r.Context(), ip, now())
		if err != nil {
			log.Printf("[WARN][Throttle] limiter unavailable, allowing %s: %v", ip, err)
			ok = true
		}
		if !ok {
			w.Header().Set("Retry-After", "60")
			responses.WriteErrorJSON(w, http.StatusTooManyRequests, responses.CodeThrottled, "too many requests")
			return
		}
		inner.ServeHTTP(w, r)
	})
}

// OnePerClient rejects a request with 429 while the same client has
// another one in flight on the wrapped routes.
type OnePerClient struct {
	Locks *keyonlylocks.Set
}

func (o OnePerClient) Wrap(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "client:" + requests.ClientIP(r)
		if !o.Locks.TryAcquire(key) {
			responses.WriteErrorJSON(w, http.StatusTooManyRequests, responses.CodeBusy, "a merge is already running")
			return
		}
		defer o.Locks.Release(key)
		inner.ServeHTTP(w, r)
	})
}
