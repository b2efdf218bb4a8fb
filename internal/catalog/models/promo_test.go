package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
)

func TestPromoValidate(t *testing.T) {
	productID := id.ProductID(uuid.New())
	categoryID := id.CategoryID(uuid.New())

	valid := func() Promo {
		return Promo{Name: "Spring", IsActive: true, Scope: ScopeGlobal, DiscountType: DiscountPercentage, DiscountValue: 10}
	}

	tests := []struct {
		name    string
		mutate  func(p *Promo)
		wantErr string
	}{
		{"global ok", func(*Promo) {}, ""},
		{"product ok", func(p *Promo) { p.Scope = ScopeProduct; p.ProductIDs = []id.ProductID{productID} }, ""},
		{"category ok", func(p *Promo) { p.Scope = ScopeCategory; p.CategoryID = categoryID }, ""},
		{"fixed larger than any price ok", func(p *Promo) { p.DiscountType = DiscountFixed; p.DiscountValue = 999 }, ""},
		{"blank name", func(p *Promo) { p.Name = "  " }, "promo name is required"},
		{"long name", func(p *Promo) { p.Name = strings.Repeat("n", 129) }, "promo name must be 128 characters or less"},
		{"negative value", func(p *Promo) { p.DiscountValue = -1 }, "discount_value cannot be negative"},
		{"percentage over 100", func(p *Promo) { p.DiscountValue = 101 }, "percentage discount cannot exceed 100"},
		{"unknown type", func(p *Promo) { p.DiscountType = "bogo" }, "discount_type must be percentage or fixed"},
		{"unknown scope", func(p *Promo) { p.Scope = "brand" }, "scope must be product, category or global"},
		{"product without ids", func(p *Promo) { p.Scope = ScopeProduct }, "product scope requires product_ids"},
		{"category without id", func(p *Promo) { p.Scope = ScopeCategory }, "category scope requires category_id"},
		{"global with ids", func(p *Promo) { p.ProductIDs = []id.ProductID{productID} }, "global scope takes no product_ids or category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPromoApplies(t *testing.T) {
	productID := id.ProductID(uuid.New())
	categoryID := id.CategoryID(uuid.New())

	byProduct := Promo{Scope: ScopeProduct, ProductIDs: []id.ProductID{productID}}
	assert.True(t, byProduct.AppliesToProduct(productID))
	assert.False(t, byProduct.AppliesToProduct(id.ProductID(uuid.New())))
	assert.False(t, byProduct.AppliesToCategory(categoryID))

	byCategory := Promo{Scope: ScopeCategory, CategoryID: categoryID}
	assert.True(t, byCategory.AppliesToCategory(categoryID))
	assert.False(t, byCategory.AppliesToCategory(id.CategoryID{}))
	assert.False(t, byCategory.AppliesToProduct(productID))
}
