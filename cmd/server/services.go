package main

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/catalog"
	catalogmetrics "storefront/internal/catalog/metrics"
	catalogservice "storefront/internal/catalog/service"
	"storefront/internal/identity"
	"storefront/internal/platform/config"
	ratelimitmetrics "storefront/internal/ratelimit/metrics"
	ratelimit "storefront/internal/ratelimit/middleware"
	ratelimitmodels "storefront/internal/ratelimit/models"
	"storefront/internal/ratelimit/store/bucket"
	"storefront/internal/tenant"
	tenantmetrics "storefront/internal/tenant/metrics"
	tenantservice "storefront/internal/tenant/service"
	"storefront/pkg/platform/audit/publisher"
)

type services struct {
	resolver  *tenant.Service
	catalogue *catalog.Service
}

// newServices builds the domain services over b. Store resolution reads the
// store table directly: a deleted selection has to fall back on the next
// request, so the Redis cache only fronts catalogue reads.
func newServices(cfg config.Server, b *backends, log *slog.Logger, audit *publisher.Publisher, reg prometheus.Registerer, tm *tenantmetrics.Metrics) services {
	return services{
		resolver: tenant.NewService(b.stores, b.memberships, identity.ContextProvider{},
			tenantservice.WithLogger(log),
			tenantservice.WithAuditPublisher(audit),
			tenantservice.WithMetrics(tm),
			tenantservice.WithSelectionRevalidation(cfg.Tenant.RevalidateSelection),
		),
		catalogue: catalog.NewService(b.catalogStores, b.products, b.categories, b.promos,
			catalogservice.WithLogger(log),
			catalogservice.WithAuditPublisher(audit),
			catalogservice.WithMetrics(catalogmetrics.New(reg)),
		),
	}
}

// newRateLimiter shares buckets through Redis when it is configured so every
// replica charges the same budget; otherwise buckets live in process.
func newRateLimiter(cfg config.Server, b *backends, log *slog.Logger, reg prometheus.Registerer) *ratelimit.Middleware {
	var limiter ratelimit.Limiter = bucket.NewInMemoryBucketStore()
	if b.redis != nil {
		limiter = bucket.NewRedisBucketStore(b.redis)
	}
	return ratelimit.New(limiter, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
		ratelimit.WithLimit(ratelimitmodels.ClassRead, cfg.RateLimit.ReadPerMinute, time.Minute),
		ratelimit.WithLimit(ratelimitmodels.ClassWrite, cfg.RateLimit.WritePerMinute, time.Minute),
		ratelimit.WithMetrics(ratelimitmetrics.New(reg)),
	)
}
