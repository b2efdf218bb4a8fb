package service

import (
	"strings"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
)

// CreatePromoRequest carries the caller-controlled fields of a new promo.
// Identity, store and timestamps are assigned by the service.
type CreatePromoRequest struct {
	Name          string
	IsActive      bool
	Scope         models.Scope
	ProductIDs    []id.ProductID
	CategoryID    id.CategoryID
	DiscountType  models.DiscountType
	DiscountValue float64
	ShowPopup     bool
}

func (r CreatePromoRequest) toPromo(promoID id.PromoID, storeID id.StoreID) *models.Promo {
	return &models.Promo{
		ID:            promoID,
		StoreID:       storeID,
		Name:          strings.TrimSpace(r.Name),
		IsActive:      r.IsActive,
		Scope:         r.Scope,
		ProductIDs:    append([]id.ProductID(nil), r.ProductIDs...),
		CategoryID:    r.CategoryID,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		ShowPopup:     r.ShowPopup,
	}
}
