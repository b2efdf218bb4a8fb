package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/catalog"
	cataloghandler "storefront/internal/catalog/handler"
	catalogstore "storefront/internal/catalog/store"
	"storefront/internal/identity"
	"storefront/internal/platform/config"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/platform/middleware"
	ratelimitmodels "storefront/internal/ratelimit/models"
	"storefront/internal/tenant"
	tenanthandler "storefront/internal/tenant/handler"
	tenantmetrics "storefront/internal/tenant/metrics"
	tenantmodels "storefront/internal/tenant/models"
	"storefront/internal/tenant/selection"
	tenantstore "storefront/internal/tenant/store"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/audit/publisher"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/platform/middleware/metadata"
	"storefront/pkg/platform/middleware/requesttime"
	"storefront/pkg/platform/reqcache"
	"storefront/pkg/platform/tx"
)

// demoOwnerID owns the seeded stores.
var demoOwnerID = id.UserID(uuid.MustParse("0e4c3b1a-7f2d-4c5e-8a9b-1c2d3e4f5a6b"))

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.DefaultRegisterer
	tm := tenantmetrics.New(reg)

	b, err := openBackends(ctx, cfg, log, tm)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.relay != nil {
		relayCtx, stopRelay := context.WithCancel(ctx)
		relayDone := make(chan struct{})
		go func() {
			defer close(relayDone)
			b.relay.Run(relayCtx)
		}()
		defer func() {
			stopRelay()
			<-relayDone
		}()
	}

	// The Postgres outbox is written inline so an event joins the request's
	// transaction; other sinks are fed from a buffer.
	bufferSize := 256
	if b.db != nil {
		bufferSize = 0
	}
	auditPublisher := publisher.NewPublisher(b.auditSink,
		publisher.WithAsyncBuffer(bufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithCircuitBreaker(5, time.Minute),
	)
	defer auditPublisher.Close()

	jwt := identity.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)
	if cfg.SeedDemo {
		if err := seedDemo(ctx, cfg, b, log, jwt); err != nil {
			return err
		}
	}

	svc := newServices(cfg, b, log, auditPublisher, reg, tm)

	cookie := selection.NewCookie(cfg.Cookies.SelectionName, cfg.Cookies.Secure)
	cookie.MaxAge = config.SelectionMaxAge
	cookie.SetSigningKey(cfg.Cookies.SelectionSigningKey)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Stamp(nil))
	r.Use(metadata.ClientMetadata(cfg.HTTP.TrustProxyHeaders))
	r.Use(middleware.Observe(log, metrics.New(reg)))
	r.Use(reqcache.Middleware)
	r.Use(identity.Session(jwt, cfg.Cookies.SessionName, log))
	r.Use(selection.Middleware(cookie))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := b.Healthy(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	limits := newRateLimiter(cfg, b, log, reg)
	tenant.NewHandler(svc.resolver, cookie, log,
		tenanthandler.WithWriteLimit(limits.RateLimitAuthenticated(ratelimitmodels.ClassWrite)),
	).Register(r)
	catalog.NewHandler(svc.catalogue, svc.resolver, log,
		cataloghandler.WithReadLimit(limits.RateLimit(ratelimitmodels.ClassRead)),
		cataloghandler.WithWriteLimit(limits.RateLimitAuthenticated(ratelimitmodels.ClassWrite)),
	).Register(r)

	return httpserver.New(cfg.Addr, r, cfg.HTTP, log).Run(ctx)
}

// seedDemo creates the demo stores and catalogues and logs a session token
// for the demo owner.
func seedDemo(ctx context.Context, cfg config.Server, b *backends, log *slog.Logger, jwt *identity.JWTService) error {
	now := time.Now().UTC()
	var stores []*tenantmodels.Store
	seedTenants := func(ctx context.Context) error {
		var err error
		stores, err = tenantstore.SeedDemo(ctx, b.stores, b.memberships, demoOwnerID, cfg.Catalogue.CurrencyUnit, now)
		return err
	}
	var err error
	if b.db != nil {
		err = tx.Run(ctx, b.db, seedTenants)
	} else {
		err = seedTenants(ctx)
	}
	if err != nil {
		return err
	}
	creators := catalogstore.Creators{Categories: b.categories, Products: b.products, Promos: b.promos}
	for _, store := range stores {
		if err := catalogstore.SeedDemo(ctx, creators, store.ID, now); err != nil {
			return err
		}
	}
	token, err := jwt.Issue(demoOwnerID, id.SessionID(uuid.New()), 24*time.Hour)
	if err != nil {
		return err
	}
	log.Info("seeded demo data",
		"owner_id", demoOwnerID.String(),
		"stores", len(stores),
		"session_cookie", cfg.Cookies.SessionName,
		"session_token", token,
	)
	return nil
}
