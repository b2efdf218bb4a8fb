// Package cached wraps a Store repository with a Redis read-through cache for
// point lookups. Redis failures degrade to the wrapped repository.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
)

const (
	storeKeyPrefix = "storefront:store:"
	defaultTTL     = 30 * time.Second
)

// Inner is the repository being cached.
type Inner interface {
	FindByID(ctx context.Context, storeID id.StoreID) (*models.Store, error)
}

// Stats receives cache outcomes. Satisfied by the tenant metrics.
type Stats interface {
	IncrementStoreCacheHit()
	IncrementStoreCacheMiss()
	IncrementStoreCacheError()
}

// StoreCache is a read-through cache over an Inner repository.
// Not-found results are never cached.
type StoreCache struct {
	inner  Inner
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
	stats  Stats
}

type Option func(*StoreCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *StoreCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *StoreCache) {
		c.logger = logger
	}
}

func WithStats(stats Stats) Option {
	return func(c *StoreCache) {
		c.stats = stats
	}
}

// New wraps inner. A nil client disables caching.
func New(inner Inner, client redis.Cmdable, opts ...Option) *StoreCache {
	c := &StoreCache{inner: inner, client: client, ttl: defaultTTL, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func key(storeID id.StoreID) string {
	return storeKeyPrefix + storeID.String()
}

// FindByID returns the cached store, loading and caching it on a miss.
func (c *StoreCache) FindByID(ctx context.Context, storeID id.StoreID) (*models.Store, error) {
	if c.client == nil {
		return c.inner.FindByID(ctx, storeID)
	}

	raw, err := c.client.Get(ctx, key(storeID)).Bytes()
	switch {
	case err == nil:
		var store models.Store
		if jsonErr := json.Unmarshal(raw, &store); jsonErr == nil {
			c.hit()
			return &store, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached store", "store_id", storeID.String())
	case errors.Is(err, redis.Nil):
		c.miss()
	default:
		c.fail()
		c.logger.WarnContext(ctx, "store cache read failed", "store_id", storeID.String(), "error", err)
		return c.inner.FindByID(ctx, storeID)
	}

	store, err := c.inner.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(store)
	if err != nil {
		return store, nil
	}
	if err := c.client.Set(ctx, key(storeID), payload, c.ttl).Err(); err != nil {
		c.fail()
		c.logger.WarnContext(ctx, "store cache write failed", "store_id", storeID.String(), "error", err)
	}
	return store, nil
}

// Invalidate drops the cached entry for storeID.
func (c *StoreCache) Invalidate(ctx context.Context, storeID id.StoreID) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(storeID)).Err()
}

func (c *StoreCache) hit() {
	if c.stats != nil {
		c.stats.IncrementStoreCacheHit()
	}
}

func (c *StoreCache) miss() {
	if c.stats != nil {
		c.stats.IncrementStoreCacheMiss()
	}
}

func (c *StoreCache) fail() {
	if c.stats != nil {
		c.stats.IncrementStoreCacheError()
	}
}
