package reqcache

import "net/http"

// Middleware attaches a fresh Cache to every request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithCache(r.Context(), New())))
	})
}
