// Package middleware throttles routes per client address and per user.
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/ratelimit/metrics"
	"storefront/internal/ratelimit/models"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/requestcontext"
)

// Limiter records a request against a bucket.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Limit is a request budget per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

type Middleware struct {
	limiter  Limiter
	limits   map[models.EndpointClass]Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through (local demos, tests).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithLimit sets the budget for class. Non-positive budgets are ignored.
func WithLimit(class models.EndpointClass, requests int, window time.Duration) Option {
	return func(m *Middleware) {
		if requests > 0 && window > 0 {
			m.limits[class] = Limit{Requests: requests, Window: window}
		}
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

func New(limiter Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
		limits: map[models.EndpointClass]Limit{
			models.ClassRead:  {Requests: 120, Window: time.Minute},
			models.ClassWrite: {Requests: 30, Window: time.Minute},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit throttles by client address.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			result, ok := m.check(ctx, class, "ip", requestcontext.ClientIP(ctx))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			addRateLimitHeaders(w, result)
			if !result.Allowed {
				writeRateLimitExceeded(w, result, "Too many requests from this address. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitAuthenticated throttles by client address and, when a session is
// present, by user. The user budget is charged only after the address
// budget admits the request. Headers report the tighter of the two.
func (m *Middleware) RateLimitAuthenticated(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			result, ok := m.check(ctx, class, "ip", requestcontext.ClientIP(ctx))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !result.Allowed {
				addRateLimitHeaders(w, result)
				writeRateLimitExceeded(w, result, "Too many requests from this address. Please try again later.")
				return
			}

			if userID := requestcontext.UserID(ctx); !userID.IsNil() {
				userResult, ok := m.check(ctx, class, "user", userID.String())
				if ok && (!userResult.Allowed || userResult.Remaining < result.Remaining) {
					result = userResult
				}
			}
			addRateLimitHeaders(w, result)
			if !result.Allowed {
				writeRateLimitExceeded(w, result, "You have exceeded your request quota for this operation.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check fails open: ok is false when the limiter errored and the request
// should proceed unthrottled.
func (m *Middleware) check(ctx context.Context, class models.EndpointClass, kind, subject string) (*models.RateLimitResult, bool) {
	limit, found := m.limits[class]
	if !found {
		return nil, false
	}
	result, err := m.limiter.Allow(ctx, models.Key(class, kind, subject), limit.Requests, limit.Window)
	if err != nil {
		m.logger.ErrorContext(ctx, "rate limit check failed", "error", err, "class", string(class), "kind", kind)
		m.metrics.IncrementCheckErrors()
		return nil, false
	}
	if !result.Allowed {
		m.metrics.IncrementRejected(string(class), kind)
	}
	return result, true
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult, message string) {
	retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    message,
		RetryAfter: retryAfter,
	})
}
