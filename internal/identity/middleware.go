package identity

import (
	"log/slog"
	"net/http"
	"strings"

	"storefront/pkg/requestcontext"
)

// TokenValidator validates a raw session token.
type TokenValidator interface {
	Validate(token string) (Identity, error)
}

// Session validates the session token from cookieName or a Bearer header and
// places the identity on the context. Requests without a valid token continue
// anonymously; the tenant resolver decides whether that means "go to login".
func Session(validator TokenValidator, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ident, err := validator.Validate(token)
			if err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "ignoring invalid session token",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = requestcontext.WithUserID(ctx, ident.UserID)
			ctx = requestcontext.WithSessionID(ctx, ident.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
