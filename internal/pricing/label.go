package pricing

import (
	"strconv"

	"storefront/internal/catalog/models"
)

// FormatDiscountLabel renders a promo's discount for display: "-25%" for a
// percentage, "-5 MAD" for a fixed amount in currencyUnit. Values print
// without trailing zeros.
func FormatDiscountLabel(promo models.Promo, currencyUnit string) string {
	value := strconv.FormatFloat(promo.DiscountValue, 'f', -1, 64)
	if promo.DiscountType == models.DiscountPercentage {
		return "-" + value + "%"
	}
	return "-" + value + " " + currencyUnit
}
