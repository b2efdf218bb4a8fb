package handler

import (
	"strings"

	"storefront/internal/catalog/models"
	"storefront/internal/catalog/service"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	platformstrings "storefront/pkg/platform/strings"
)

// CreatePromoRequest is the body of POST /dashboard/promos.
type CreatePromoRequest struct {
	Name          string   `json:"name"`
	IsActive      bool     `json:"is_active"`
	Scope         string   `json:"scope"`
	ProductIDs    []string `json:"product_ids,omitempty"`
	CategoryID    string   `json:"category_id,omitempty"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue float64  `json:"discount_value"`
	ShowPopup     bool     `json:"show_popup"`
}

// Parse converts identifiers and enums. Cross-field rules are checked by the
// service.
func (r *CreatePromoRequest) Parse() (service.CreatePromoRequest, error) {
	req := service.CreatePromoRequest{
		Name:          r.Name,
		IsActive:      r.IsActive,
		Scope:         models.Scope(strings.ToLower(strings.TrimSpace(r.Scope))),
		DiscountType:  models.DiscountType(strings.ToLower(strings.TrimSpace(r.DiscountType))),
		DiscountValue: r.DiscountValue,
		ShowPopup:     r.ShowPopup,
	}
	for _, raw := range platformstrings.DedupeFold(r.ProductIDs) {
		pid, err := id.ParseProductID(raw)
		if err != nil {
			return service.CreatePromoRequest{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid product_ids")
		}
		req.ProductIDs = append(req.ProductIDs, pid)
	}
	if raw := strings.TrimSpace(r.CategoryID); raw != "" {
		cid, err := id.ParseCategoryID(raw)
		if err != nil {
			return service.CreatePromoRequest{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid category_id")
		}
		req.CategoryID = cid
	}
	return req, nil
}

// DashboardCatalogueResponse is the seller's view: the priced catalogue plus
// every promo, inactive ones included.
type DashboardCatalogueResponse struct {
	Storefront *service.Storefront `json:"storefront"`
	Promos     []models.Promo      `json:"promos"`
}
