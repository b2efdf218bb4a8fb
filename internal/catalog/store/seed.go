package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

type CategoryCreator interface {
	Create(ctx context.Context, c *models.Category) error
}

type ProductCreator interface {
	Create(ctx context.Context, p *models.Product) error
}

type PromoCreator interface {
	Create(ctx context.Context, p *models.Promo) error
}

// Creators groups the stores SeedDemo writes to.
type Creators struct {
	Categories CategoryCreator
	Products   ProductCreator
	Promos     PromoCreator
}

type demoProduct struct {
	name     string
	category string
	price    float64
}

var (
	demoCategories = []string{"Spices", "Tea", "Ceramics"}
	demoProducts   = []demoProduct{
		{name: "Ras el hanout", category: "Spices", price: 19.99},
		{name: "Saffron 1g", category: "Spices", price: 45},
		{name: "Gunpowder green tea", category: "Tea", price: 12.5},
		{name: "Painted tagine", category: "Ceramics", price: 1.25},
		{name: "Gift card", price: 50},
	}
)

// seedID derives a stable id so repeated seeding is idempotent.
func seedID(storeID id.StoreID, kind, name string) uuid.UUID {
	return uuid.NewSHA1(uuid.UUID(storeID), []byte(kind+":"+name))
}

// SeedDemo fills a store with a small catalogue: a category promo announced
// in the popup, a fixed-amount product promo and an inactive global promo.
// Existing rows are left untouched.
func SeedDemo(ctx context.Context, c Creators, storeID id.StoreID, now time.Time) error {
	categoryIDs := make(map[string]id.CategoryID, len(demoCategories))
	for _, name := range demoCategories {
		cat := &models.Category{ID: id.CategoryID(seedID(storeID, "category", name)), StoreID: storeID, Name: name}
		if err := ignoreConflict(c.Categories.Create(ctx, cat)); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		categoryIDs[name] = cat.ID
	}

	var saffron id.ProductID
	for i, demo := range demoProducts {
		p := &models.Product{
			ID:         id.ProductID(seedID(storeID, "product", demo.name)),
			StoreID:    storeID,
			CategoryID: categoryIDs[demo.category],
			Name:       demo.name,
			Price:      demo.price,
			Active:     true,
			CreatedAt:  now.Add(time.Duration(i) * time.Second),
		}
		if demo.name == "Saffron 1g" {
			saffron = p.ID
		}
		if err := ignoreConflict(c.Products.Create(ctx, p)); err != nil {
			return fmt.Errorf("seed product %s: %w", demo.name, err)
		}
	}

	promos := []*models.Promo{
		{
			Name: "Spice week", IsActive: true, Scope: models.ScopeCategory, CategoryID: categoryIDs["Spices"],
			DiscountType: models.DiscountPercentage, DiscountValue: 33, ShowPopup: true, CreatedAt: now,
		},
		{
			Name: "Saffron deal", IsActive: true, Scope: models.ScopeProduct, ProductIDs: []id.ProductID{saffron},
			DiscountType: models.DiscountFixed, DiscountValue: 5, CreatedAt: now.Add(time.Second),
		},
		{
			Name: "Summer sale", IsActive: false, Scope: models.ScopeGlobal,
			DiscountType: models.DiscountPercentage, DiscountValue: 10, CreatedAt: now.Add(2 * time.Second),
		},
	}
	for _, p := range promos {
		p.ID = id.PromoID(seedID(storeID, "promo", p.Name))
		p.StoreID = storeID
		if err := p.Validate(); err != nil {
			return err
		}
		if err := ignoreConflict(c.Promos.Create(ctx, p)); err != nil {
			return fmt.Errorf("seed promo %s: %w", p.Name, err)
		}
	}
	return nil
}

func ignoreConflict(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return nil
	}
	return err
}
