// Package pricing computes display prices from a product and the promos of
// its store. Everything here is pure: inputs are snapshots already loaded by
// the caller, and no function fails for validated input.
package pricing

import (
	"math"

	"storefront/internal/catalog/models"
)

// Price is the effective price of one product.
type Price struct {
	OriginalPrice   float64 `json:"original_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	Discount        float64 `json:"discount"`
	HasDiscount     bool    `json:"has_discount"`
}

// precedence lists scopes from most to least specific. The first scope with a
// matching active promo decides the price.
var precedence = []models.Scope{
	models.ScopeProduct,
	models.ScopeCategory,
	models.ScopeGlobal,
}

// ResolvePrice applies the single most specific active promo to product.
// Within one scope the first matching promo in input order wins; callers that
// want "newest wins" pass promos newest first.
func ResolvePrice(product models.Product, promos []models.Promo) Price {
	promo, ok := ApplicablePromo(product, promos)
	if !ok {
		return Price{
			OriginalPrice:   product.Price,
			DiscountedPrice: product.Price,
		}
	}
	return apply(product.Price, promo)
}

// ApplicablePromo returns the promo ResolvePrice would apply.
func ApplicablePromo(product models.Product, promos []models.Promo) (*models.Promo, bool) {
	for _, scope := range precedence {
		if promo, ok := firstMatch(scope, product, promos); ok {
			return promo, true
		}
	}
	return nil, false
}

func firstMatch(scope models.Scope, product models.Product, promos []models.Promo) (*models.Promo, bool) {
	for i := range promos {
		promo := &promos[i]
		if !promo.IsActive || promo.Scope != scope {
			continue
		}
		if matches(scope, product, promo) {
			return promo, true
		}
	}
	return nil, false
}

func matches(scope models.Scope, product models.Product, promo *models.Promo) bool {
	switch scope {
	case models.ScopeProduct:
		return promo.AppliesToProduct(product.ID)
	case models.ScopeCategory:
		return promo.AppliesToCategory(product.CategoryID)
	case models.ScopeGlobal:
		return true
	default:
		return false
	}
}

// apply computes the discounted price in minor units so decimal halves such
// as 1.005 round the same way as 0.125. The discount never exceeds the
// original price, so DiscountedPrice stays within [0, OriginalPrice].
func apply(original float64, promo *models.Promo) Price {
	cents := toCents(original)
	var off float64
	switch promo.DiscountType {
	case models.DiscountPercentage:
		off = float64(cents) * promo.DiscountValue / 100
	case models.DiscountFixed:
		off = promo.DiscountValue * 100
	}
	discount := min(max(int64(roundHalfAway(off)), 0), cents)
	return Price{
		OriginalPrice:   original,
		DiscountedPrice: fromCents(cents - discount),
		Discount:        fromCents(discount),
		HasDiscount:     true,
	}
}

// Round2 rounds to two decimals, halves away from zero. The value is first
// snapped to six decimal places of minor units so binary noise (2.01*0.5 is
// stored as 1.00499...) does not decide the direction.
func Round2(v float64) float64 {
	return roundHalfAway(v*100) / 100
}

func roundHalfAway(minor float64) float64 {
	return math.Round(math.Round(minor*1e6) / 1e6)
}

func toCents(amount float64) int64 {
	return int64(roundHalfAway(amount * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

// ResolvePopupPromo returns the first active promo flagged for the popup.
func ResolvePopupPromo(promos []models.Promo) (*models.Promo, bool) {
	for i := range promos {
		if promos[i].IsActive && promos[i].ShowPopup {
			return &promos[i], true
		}
	}
	return nil, false
}
