package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog/store/category"
	"storefront/internal/catalog/store/product"
	"storefront/internal/catalog/store/promo"
	"storefront/internal/platform/config"
	ratelimitmodels "storefront/internal/ratelimit/models"
	tenantmetrics "storefront/internal/tenant/metrics"
	tenantmodels "storefront/internal/tenant/models"
	"storefront/internal/tenant/store/cached"
	"storefront/internal/tenant/store/membership"
	"storefront/internal/tenant/store/tenant"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/audit/publisher"
	auditmemory "storefront/pkg/platform/audit/store/memory"
	auditpostgres "storefront/pkg/platform/audit/store/postgres"
	"storefront/pkg/platform/reqcache"
	"storefront/pkg/requestcontext"
)

// mapRedis keeps cache entries in a map. Commands the store cache does not
// issue fall through to the nil embedded interface.
type mapRedis struct {
	redis.Cmdable
	data map[string]string
}

func (m *mapRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if v, ok := m.data[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mapRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if b, ok := value.([]byte); ok {
		m.data[key] = string(b)
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mapRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	for _, k := range keys {
		delete(m.data, k)
	}
	return cmd
}

func TestResolverFallsBackWhenCachedSelectionIsDeleted(t *testing.T) {
	ctx := context.Background()
	stores := tenant.NewInMemory()
	memberships := membership.NewInMemory()
	cache := &mapRedis{data: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	tm := tenantmetrics.New(reg)

	b := &backends{
		stores:        stores,
		catalogStores: cached.New(stores, cache),
		memberships:   memberships,
		categories:    category.NewInMemory(),
		products:      product.NewInMemory(),
		promos:        promo.NewInMemory(),
		auditSink:     auditmemory.NewInMemoryStore(),
	}
	audit := publisher.NewPublisher(b.auditSink)
	defer audit.Close()
	svc := newServices(config.Server{}, b, logger, audit, reg, tm)

	userID := id.UserID(uuid.New())
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	addStore := func(name string, since time.Time) *tenantmodels.Store {
		store := &tenantmodels.Store{ID: id.StoreID(uuid.New()), OwnerID: userID, Name: name, Currency: "MAD", CreatedAt: since}
		require.NoError(t, stores.Create(ctx, store))
		require.NoError(t, memberships.Create(ctx, &tenantmodels.Membership{
			ID: id.MembershipID(uuid.New()), UserID: userID, StoreID: store.ID, Role: tenantmodels.RoleOwner, CreatedAt: since,
		}))
		return store
	}
	home := addStore("Home", t0)
	doomed := addStore("Doomed", t0.Add(time.Hour))

	request := func() context.Context {
		rctx := requestcontext.WithUserID(ctx, userID)
		rctx = requestcontext.WithSelectedStoreID(rctx, doomed.ID)
		return reqcache.WithCache(rctx, reqcache.New())
	}

	first := request()
	_, err := svc.catalogue.Storefront(first, doomed.ID)
	require.NoError(t, err)
	require.NotEmpty(t, cache.data, "catalogue read warms the store cache")
	got, err := svc.resolver.ResolveCurrentStore(first)
	require.NoError(t, err)
	assert.Equal(t, doomed.ID, got.ID)

	require.NoError(t, stores.Delete(ctx, doomed.ID))

	got, err = svc.resolver.ResolveCurrentStore(request())
	require.NoError(t, err)
	assert.Equal(t, home.ID, got.ID)
}

func TestOpenAuditPicksSink(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Server{Audit: config.AuditConfig{Topic: "storefront.audit"}}

	t.Run("memory without a database or brokers", func(t *testing.T) {
		b := &backends{}
		require.NoError(t, b.openAudit(ctx, cfg, log))
		assert.IsType(t, &auditmemory.InMemoryStore{}, b.auditSink)
		assert.Nil(t, b.relay)
	})

	t.Run("outbox when a database is configured", func(t *testing.T) {
		// sql.Open does not connect, and building the outbox issues no queries.
		db, err := sql.Open("postgres", "postgres://localhost:1/unused?sslmode=disable")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		b := &backends{db: db}
		require.NoError(t, b.openAudit(ctx, cfg, log))
		assert.IsType(t, &auditpostgres.Store{}, b.auditSink)
		assert.Nil(t, b.relay, "nothing to relay to without brokers")
	})
}

func TestRateLimiterUsesProcessBucketsWithoutRedis(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Server{RateLimit: config.RateLimitConfig{ReadPerMinute: 1, WritePerMinute: 1}}
	limits := newRateLimiter(cfg, &backends{}, log, prometheus.NewRegistry())

	h := limits.RateLimit(ratelimitmodels.ClassRead)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/stores/x/catalogue", nil)
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "192.0.2.7", "test"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, call())
	assert.Equal(t, http.StatusTooManyRequests, call())
}
