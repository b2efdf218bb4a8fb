//go:build integration

package cached

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
	"storefront/pkg/testutil/containers"
)

type StoreCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestStoreCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreCacheSuite))
}

func (s *StoreCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *StoreCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *StoreCacheSuite) TestReadThrough() {
	ctx := context.Background()
	storeID := id.StoreID(uuid.New())
	inner := &countingInner{stores: map[id.StoreID]*models.Store{
		storeID: {ID: storeID, Name: "Cached", Currency: "MAD", CreatedAt: time.Now().UTC()},
	}}
	stats := &countingStats{}
	c := New(inner, s.redis.Client, WithTTL(time.Minute), WithStats(stats))

	first, err := c.FindByID(ctx, storeID)
	s.Require().NoError(err)
	second, err := c.FindByID(ctx, storeID)
	s.Require().NoError(err)

	s.Equal(first.Name, second.Name)
	s.Equal(1, inner.calls)
	s.Equal(1, stats.misses)
	s.Equal(1, stats.hits)

	ttl, err := s.redis.Client.TTL(ctx, key(storeID)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *StoreCacheSuite) TestInvalidateForcesReload() {
	ctx := context.Background()
	storeID := id.StoreID(uuid.New())
	inner := &countingInner{stores: map[id.StoreID]*models.Store{storeID: {ID: storeID, Name: "Before"}}}
	c := New(inner, s.redis.Client)

	_, err := c.FindByID(ctx, storeID)
	s.Require().NoError(err)

	inner.stores[storeID] = &models.Store{ID: storeID, Name: "After"}
	s.Require().NoError(c.Invalidate(ctx, storeID))

	got, err := c.FindByID(ctx, storeID)
	s.Require().NoError(err)
	s.Equal("After", got.Name)
	s.Equal(2, inner.calls)
}

func (s *StoreCacheSuite) TestNotFoundIsNotCached() {
	ctx := context.Background()
	storeID := id.StoreID(uuid.New())
	inner := &countingInner{stores: map[id.StoreID]*models.Store{}}
	c := New(inner, s.redis.Client)

	_, err := c.FindByID(ctx, storeID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = c.FindByID(ctx, storeID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(2, inner.calls)

	exists, err := s.redis.Client.Exists(ctx, key(storeID)).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}
