package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/ratelimit/metrics"
	"storefront/internal/ratelimit/models"
	"storefront/internal/ratelimit/store/bucket"
	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis: connection refused")
}

func serve(h http.Handler, ip string, user id.UserID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/promos", nil)
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, "test")
	if !user.IsNil() {
		ctx = requestcontext.WithUserID(ctx, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows within budget and reports headers", func(t *testing.T) {
		m := New(bucket.NewInMemoryBucketStore(), discard, WithLimit(models.ClassRead, 2, time.Minute))
		h := m.RateLimit(models.ClassRead)(okHandler())

		rec := serve(h, "10.0.0.1", id.UserID{})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("rejects over budget with 429 and retry hint", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		mm := metrics.New(reg)
		m := New(bucket.NewInMemoryBucketStore(), discard,
			WithLimit(models.ClassRead, 1, time.Minute), WithMetrics(mm))
		h := m.RateLimit(models.ClassRead)(okHandler())

		serve(h, "10.0.0.1", id.UserID{})
		rec := serve(h, "10.0.0.1", id.UserID{})
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		var body models.RateLimitExceededResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "rate_limit_exceeded", body.Error)
		assert.Equal(t, 60, body.RetryAfter)
		assert.Equal(t, 1.0, testutil.ToFloat64(mm.Rejected.WithLabelValues("read", "ip")))

		other := serve(h, "10.0.0.2", id.UserID{})
		assert.Equal(t, http.StatusNoContent, other.Code)
	})

	t.Run("classes have separate budgets", func(t *testing.T) {
		m := New(bucket.NewInMemoryBucketStore(), discard,
			WithLimit(models.ClassRead, 1, time.Minute), WithLimit(models.ClassWrite, 1, time.Minute))
		read := m.RateLimit(models.ClassRead)(okHandler())
		write := m.RateLimit(models.ClassWrite)(okHandler())

		assert.Equal(t, http.StatusNoContent, serve(read, "10.0.0.1", id.UserID{}).Code)
		assert.Equal(t, http.StatusNoContent, serve(write, "10.0.0.1", id.UserID{}).Code)
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		mm := metrics.New(reg)
		h := New(failingLimiter{}, discard, WithMetrics(mm)).RateLimit(models.ClassRead)(okHandler())

		rec := serve(h, "10.0.0.1", id.UserID{})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, 1.0, testutil.ToFloat64(mm.CheckErrors))
	})

	t.Run("disabled skips the limiter", func(t *testing.T) {
		h := New(failingLimiter{}, discard, WithDisabled(true)).RateLimit(models.ClassRead)(okHandler())
		rec := serve(h, "10.0.0.1", id.UserID{})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})
}

func TestRateLimitAuthenticated(t *testing.T) {
	t.Run("user budget follows the user across addresses", func(t *testing.T) {
		m := New(bucket.NewInMemoryBucketStore(), discard, WithLimit(models.ClassWrite, 2, time.Minute))
		h := m.RateLimitAuthenticated(models.ClassWrite)(okHandler())
		user := id.UserID(uuid.New())

		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1", user).Code)
		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.2", user).Code)

		rec := serve(h, "10.0.0.3", user)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("headers report the tighter budget", func(t *testing.T) {
		m := New(bucket.NewInMemoryBucketStore(), discard, WithLimit(models.ClassWrite, 3, time.Minute))
		h := m.RateLimitAuthenticated(models.ClassWrite)(okHandler())
		user := id.UserID(uuid.New())

		serve(h, "10.0.0.1", user)
		rec := serve(h, "10.0.0.9", user)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("anonymous callers fall back to the address budget", func(t *testing.T) {
		m := New(bucket.NewInMemoryBucketStore(), discard, WithLimit(models.ClassWrite, 1, time.Minute))
		h := m.RateLimitAuthenticated(models.ClassWrite)(okHandler())

		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1", id.UserID{}).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(h, "10.0.0.1", id.UserID{}).Code)
	})
}
