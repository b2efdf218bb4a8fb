package selection

import (
	"net/http"

	"storefront/pkg/requestcontext"
)

// Middleware places the cookie's store selection, if any, on the request context.
func Middleware(c *Cookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if storeID, ok := c.Read(r); ok {
				r = r.WithContext(requestcontext.WithSelectedStoreID(r.Context(), storeID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
