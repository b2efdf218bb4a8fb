package models

import (
	"slices"
	"strings"
	"time"

	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
)

// Scope says which products a promo applies to.
type Scope string

const (
	ScopeProduct  Scope = "product"
	ScopeCategory Scope = "category"
	ScopeGlobal   Scope = "global"
)

func (s Scope) IsValid() bool {
	return s == ScopeProduct || s == ScopeCategory || s == ScopeGlobal
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// Promo is a discount rule of one store.
//
// Invariants (enforced by Validate at the data-entry boundary):
//   - DiscountValue >= 0; a percentage is at most 100
//   - ScopeProduct has at least one product id
//   - ScopeCategory has a category id
type Promo struct {
	ID            id.PromoID     `json:"id"`
	StoreID       id.StoreID     `json:"store_id"`
	Name          string         `json:"name"`
	IsActive      bool           `json:"is_active"`
	Scope         Scope          `json:"scope"`
	ProductIDs    []id.ProductID `json:"product_ids,omitempty"`
	CategoryID    id.CategoryID  `json:"category_id,omitzero"`
	DiscountType  DiscountType   `json:"discount_type"`
	DiscountValue float64        `json:"discount_value"`
	ShowPopup     bool           `json:"show_popup"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AppliesToProduct reports whether a product-scoped promo lists productID.
func (p *Promo) AppliesToProduct(productID id.ProductID) bool {
	return p.Scope == ScopeProduct && slices.Contains(p.ProductIDs, productID)
}

// AppliesToCategory reports whether a category-scoped promo targets categoryID.
func (p *Promo) AppliesToCategory(categoryID id.CategoryID) bool {
	return p.Scope == ScopeCategory && !p.CategoryID.IsNil() && p.CategoryID == categoryID
}

// Validate rejects promos the pricing resolver must never see.
func (p *Promo) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "promo name is required")
	}
	if len(p.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "promo name must be 128 characters or less")
	}
	if !p.DiscountType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "discount_type must be percentage or fixed")
	}
	if p.DiscountValue < 0 {
		return dErrors.New(dErrors.CodeValidation, "discount_value cannot be negative")
	}
	if p.DiscountType == DiscountPercentage && p.DiscountValue > 100 {
		return dErrors.New(dErrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	switch p.Scope {
	case ScopeProduct:
		if len(p.ProductIDs) == 0 {
			return dErrors.New(dErrors.CodeValidation, "product scope requires product_ids")
		}
		if !p.CategoryID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "product scope does not take a category_id")
		}
	case ScopeCategory:
		if p.CategoryID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "category scope requires category_id")
		}
		if len(p.ProductIDs) > 0 {
			return dErrors.New(dErrors.CodeValidation, "category scope does not take product_ids")
		}
	case ScopeGlobal:
		if len(p.ProductIDs) > 0 || !p.CategoryID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "global scope takes no product_ids or category_id")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "scope must be product, category or global")
	}
	return nil
}
