// Package reqcache memoizes computations for the lifetime of one inbound request.
//
// A Cache is created per request by Middleware and carried on the request
// context. It is never shared between requests, so no cross-request locking or
// eviction exists. Within a request, concurrent callers asking for the same key
// share one execution (singleflight) and later callers reuse the stored result.
//
// Errors are memoized as well: a failed computation is not retried within the
// same request.
package reqcache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

type result struct {
	val any
	err error
}

// Cache holds the memoized results of one request.
type Cache struct {
	group   singleflight.Group
	mu      sync.Mutex
	results map[string]result
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{results: make(map[string]result)}
}

// Memoize returns the result stored under key, computing it with fn on the
// first call. fn runs at most once per key for the life of the cache.
func (c *Cache) Memoize(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if r, ok := c.lookup(key); ok {
		return r.val, r.err
	}
	val, err, _ := c.group.Do(key, func() (any, error) {
		// A flight for key may have finished between lookup and Do.
		if r, ok := c.lookup(key); ok {
			return r.val, r.err
		}
		val, err := fn(ctx)
		c.mu.Lock()
		c.results[key] = result{val: val, err: err}
		c.mu.Unlock()
		return val, err
	})
	return val, err
}

// Forget drops the stored result for key so the next Memoize recomputes it.
// Used after a write within the same request changes the answer.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.results, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Len reports how many keys hold a result.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func (c *Cache) lookup(key string) (result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

// Memoize is the typed form of Cache.Memoize using the cache carried by ctx.
func Memoize[T any](ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	val, err := From(ctx).Memoize(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if val == nil {
		var zero T
		return zero, err
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("reqcache: key %q holds %T", key, val)
	}
	return typed, err
}

type cacheKey struct{}

// WithCache attaches c to ctx.
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, c)
}

// From returns the cache attached to ctx. Outside a request (CLI, workers) it
// returns a fresh cache, so nothing is memoized beyond the single call.
func From(ctx context.Context) *Cache {
	if c, ok := ctx.Value(cacheKey{}).(*Cache); ok && c != nil {
		return c
	}
	return New()
}
