package pricing

import "storefront/internal/catalog/models"

// PricedProduct is a product with its resolved price and, when discounted,
// the label of the applied promo.
type PricedProduct struct {
	Product models.Product `json:"product"`
	Price   Price          `json:"price"`
	Label   string         `json:"discount_label,omitempty"`
}

// ApplyCatalogue prices every product against the same promo set.
func ApplyCatalogue(products []models.Product, promos []models.Promo, currencyUnit string) []PricedProduct {
	priced := make([]PricedProduct, 0, len(products))
	for _, p := range products {
		item := PricedProduct{
			Product: p,
			Price:   Price{OriginalPrice: p.Price, DiscountedPrice: p.Price},
		}
		if promo, ok := ApplicablePromo(p, promos); ok {
			item.Price = apply(p.Price, promo)
			item.Label = FormatDiscountLabel(*promo, currencyUnit)
		}
		priced = append(priced, item)
	}
	return priced
}
