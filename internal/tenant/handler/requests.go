package handler

import (
	"encoding/json"
	"strings"
	"time"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
)

// SelectStoreRequest is the body of POST /dashboard/stores/select.
type SelectStoreRequest struct {
	StoreID string `json:"store_id"`
}

// Parse normalizes and validates the request.
func (r *SelectStoreRequest) Parse() (id.StoreID, error) {
	return id.ParseStoreID(strings.TrimSpace(r.StoreID))
}

type StoreResponse struct {
	ID          id.StoreID      `json:"id"`
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	ThemeConfig json.RawMessage `json:"theme_config,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StoreListResponse struct {
	Stores []StoreResponse `json:"stores"`
}

func toStoreResponse(s *models.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Currency:    s.Currency,
		ThemeConfig: s.ThemeConfig,
		CreatedAt:   s.CreatedAt,
	}
}
