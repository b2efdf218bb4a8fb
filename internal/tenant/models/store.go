package models

import (
	"encoding/json"
	"strings"
	"time"

	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
)

// Store is a seller's tenant: one catalogue plus its presentation settings.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - ThemeConfig is a JSON object (or empty)
//   - Currency is a non-empty display unit
//   - OwnerID and CreatedAt are immutable after construction
type Store struct {
	ID          id.StoreID      `json:"id"`
	OwnerID     id.UserID       `json:"owner_id"`
	Name        string          `json:"name"`
	ThemeConfig json.RawMessage `json:"theme_config,omitempty"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewStore(storeID id.StoreID, ownerID id.UserID, name, currency string, theme json.RawMessage, now time.Time) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store name must be 128 characters or less")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store owner is required")
	}
	if strings.TrimSpace(currency) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store currency is required")
	}
	if len(theme) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(theme, &obj); err != nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "theme config must be a JSON object")
		}
	}
	return &Store{
		ID:          storeID,
		OwnerID:     ownerID,
		Name:        name,
		ThemeConfig: theme,
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
