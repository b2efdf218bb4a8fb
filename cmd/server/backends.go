package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	catalogservice "storefront/internal/catalog/service"
	catalogstore "storefront/internal/catalog/store"
	"storefront/internal/catalog/store/category"
	"storefront/internal/catalog/store/product"
	"storefront/internal/catalog/store/promo"
	"storefront/internal/platform/config"
	platformredis "storefront/internal/platform/redis"
	tenantmetrics "storefront/internal/tenant/metrics"
	tenantservice "storefront/internal/tenant/service"
	tenantstore "storefront/internal/tenant/store"
	"storefront/internal/tenant/store/cached"
	"storefront/internal/tenant/store/membership"
	"storefront/internal/tenant/store/tenant"
	"storefront/migrations"
	"storefront/pkg/platform/audit/kafka"
	"storefront/pkg/platform/audit/publisher"
	auditmemory "storefront/pkg/platform/audit/store/memory"
	auditpostgres "storefront/pkg/platform/audit/store/postgres"
	"storefront/pkg/platform/audit/worker"
)

type storeBackend interface {
	tenantstore.StoreCreator
	tenantservice.StoreStore
}

type membershipBackend interface {
	tenantstore.MembershipCreator
	tenantservice.MembershipStore
}

type categoryBackend interface {
	catalogstore.CategoryCreator
	catalogservice.CategoryStore
}

type productBackend interface {
	catalogstore.ProductCreator
	catalogservice.ProductStore
}

// backends holds the persistence layer. Without DATABASE_URL everything is
// kept in memory.
type backends struct {
	stores storeBackend
	// catalogStores serves store lookups for catalogue reads, through Redis
	// when configured.
	catalogStores catalogservice.StoreLookup
	memberships   membershipBackend
	categories    categoryBackend
	products      productBackend
	promos        catalogservice.PromoStore
	auditSink     publisher.Sink
	// relay drains the Postgres audit outbox to Kafka; nil when either is absent.
	relay *worker.Relay
	// redis is nil when REDIS_URL is unset.
	redis *platformredis.Client
	// db is set when the tenant stores run on Postgres.
	db     *sql.DB
	health []func(ctx context.Context) error

	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func (b *backends) Healthy(ctx context.Context) error {
	for _, check := range b.health {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func openBackends(ctx context.Context, cfg config.Server, logger *slog.Logger, tm *tenantmetrics.Metrics) (*backends, error) {
	b := &backends{}
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		b.stores = tenant.NewInMemory()
		b.memberships = membership.NewInMemory()
		b.categories = category.NewInMemory()
		b.products = product.NewInMemory()
		b.promos = promo.NewInMemory()
	} else if err := b.openPostgres(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}

	b.catalogStores = b.stores
	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		b.Close()
		return nil, err
	}
	if rc != nil {
		b.redis = rc
		b.closers = append(b.closers, func() { _ = rc.Close() })
		b.health = append(b.health, rc.Health)
		b.catalogStores = cached.New(b.stores, rc,
			cached.WithTTL(cfg.Tenant.StoreCacheTTL),
			cached.WithLogger(logger),
			cached.WithStats(tm),
		)
	}

	if err := b.openAudit(ctx, cfg, logger); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// openAudit picks the audit sink. With Postgres, events land in the outbox
// and a relay forwards them to Kafka when brokers are configured.
func (b *backends) openAudit(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	var broker *kafka.Sink
	if len(cfg.Audit.KafkaBrokers) > 0 {
		sink, err := kafka.NewSink(cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, sink.Close)
		if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
			return fmt.Errorf("ensure audit topic: %w", err)
		}
		b.health = append(b.health, sink.Ping)
		broker = sink
	}

	switch {
	case b.db != nil:
		outbox := auditpostgres.New(b.db)
		b.auditSink = outbox
		if broker != nil {
			b.relay = worker.NewRelay(b.db, outbox, broker,
				worker.WithInterval(cfg.Audit.RelayInterval),
				worker.WithBatchSize(cfg.Audit.RelayBatchSize),
				worker.WithRetention(cfg.Audit.OutboxRetention),
				worker.WithLogger(logger),
			)
		}
	case broker != nil:
		b.auditSink = broker
	default:
		b.auditSink = auditmemory.NewInMemoryStore()
	}
	return nil
}

func (b *backends) openPostgres(ctx context.Context, cfg config.Server) error {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	b.closers = append(b.closers, func() { _ = db.Close() })
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open pgx pool: %w", err)
	}
	b.closers = append(b.closers, pool.Close)
	b.health = append(b.health, db.PingContext, pool.Ping)

	b.db = db
	b.stores = tenant.NewPostgres(db)
	b.memberships = membership.NewPostgres(db)
	b.categories = category.NewPostgres(pool)
	b.products = product.NewPostgres(pool)
	b.promos = promo.NewPostgres(pool)
	return nil
}
