//go:build integration

package promo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"storefront/internal/catalog/models"
	"storefront/internal/catalog/store/category"
	"storefront/internal/catalog/store/product"
	"storefront/internal/catalog/store/promo"
	tenantmodels "storefront/internal/tenant/models"
	"storefront/internal/tenant/store/tenant"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
	"storefront/pkg/testutil/containers"
)

type CatalogPostgresSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	pool       *pgxpool.Pool
	promos     *promo.PostgresStore
	products   *product.PostgresStore
	categories *category.PostgresStore
	storeID    id.StoreID
}

func TestCatalogPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CatalogPostgresSuite))
}

func (s *CatalogPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	pool, err := pgxpool.New(context.Background(), s.postgres.DSN)
	s.Require().NoError(err)
	s.pool = pool
	s.promos = promo.NewPostgres(pool)
	s.products = product.NewPostgres(pool)
	s.categories = category.NewPostgres(pool)
}

func (s *CatalogPostgresSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *CatalogPostgresSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "promos", "products", "categories", "store_memberships", "stores"))
	now := time.Now().UTC()
	st := &tenantmodels.Store{ID: id.StoreID(uuid.New()), OwnerID: id.UserID(uuid.New()), Name: "Catalog", Currency: "MAD", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(tenant.NewPostgres(s.postgres.DB).Create(ctx, st))
	s.storeID = st.ID
}

func (s *CatalogPostgresSuite) TestPromoRoundTripAndOrder() {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	pid := id.ProductID(uuid.New())
	cid := id.CategoryID(uuid.New())

	older := &models.Promo{
		ID: id.PromoID(uuid.New()), StoreID: s.storeID, Name: "Older", IsActive: true,
		Scope: models.ScopeProduct, ProductIDs: []id.ProductID{pid},
		DiscountType: models.DiscountFixed, DiscountValue: 2.5, CreatedAt: t0,
	}
	newer := &models.Promo{
		ID: id.PromoID(uuid.New()), StoreID: s.storeID, Name: "Newer", IsActive: false,
		Scope: models.ScopeCategory, CategoryID: cid,
		DiscountType: models.DiscountPercentage, DiscountValue: 15, ShowPopup: true, CreatedAt: t0.Add(time.Hour),
	}
	s.Require().NoError(s.promos.Create(ctx, older))
	s.Require().NoError(s.promos.Create(ctx, newer))
	s.ErrorIs(s.promos.Create(ctx, older), sentinel.ErrConflict)

	list, err := s.promos.ListByStore(ctx, s.storeID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	s.Equal(newer.ID, list[0].ID)
	s.Equal(cid, list[0].CategoryID)
	s.True(list[0].ShowPopup)
	s.False(list[0].IsActive)

	s.Equal(older.ID, list[1].ID)
	s.Equal([]id.ProductID{pid}, list[1].ProductIDs)
	s.Equal(2.5, list[1].DiscountValue)
	s.True(list[1].CategoryID.IsNil())
}

func (s *CatalogPostgresSuite) TestProductsAndCategories() {
	ctx := context.Background()
	cat := &models.Category{ID: id.CategoryID(uuid.New()), StoreID: s.storeID, Name: "Spices"}
	s.Require().NoError(s.categories.Create(ctx, cat))

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	withCategory := &models.Product{ID: id.ProductID(uuid.New()), StoreID: s.storeID, CategoryID: cat.ID, Name: "Cumin", Price: 19.99, Active: true, CreatedAt: t0}
	uncategorized := &models.Product{ID: id.ProductID(uuid.New()), StoreID: s.storeID, Name: "Gift card", Price: 50, Active: true, CreatedAt: t0.Add(time.Minute)}
	inactive := &models.Product{ID: id.ProductID(uuid.New()), StoreID: s.storeID, Name: "Retired", Price: 1, CreatedAt: t0.Add(time.Hour)}
	for _, p := range []*models.Product{withCategory, uncategorized, inactive} {
		s.Require().NoError(s.products.Create(ctx, p))
	}

	list, err := s.products.ListByStore(ctx, s.storeID, false)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(cat.ID, list[0].CategoryID)
	s.Equal(19.99, list[0].Price)
	s.True(list[1].CategoryID.IsNil())

	all, err := s.products.ListByStore(ctx, s.storeID, true)
	s.Require().NoError(err)
	s.Len(all, 3)

	cats, err := s.categories.ListByStore(ctx, s.storeID)
	s.Require().NoError(err)
	s.Require().Len(cats, 1)
	s.Equal("Spices", cats[0].Name)
}
