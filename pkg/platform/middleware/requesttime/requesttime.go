// Package requesttime pins one "now" per request so promo timestamps, audit
// events and resolution logs written while serving it agree.
package requesttime

import (
	"net/http"
	"time"

	"storefront/pkg/requestcontext"
)

// Stamp returns middleware that reads clock once per request and stores the
// result, in UTC, on the context. A nil clock means time.Now.
func Stamp(clock func() time.Time) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
