package models

import (
	"time"

	id "storefront/pkg/domain"
)

// Product is a catalogue item. Price is in the store's currency, two decimals.
type Product struct {
	ID         id.ProductID  `json:"id"`
	StoreID    id.StoreID    `json:"store_id"`
	CategoryID id.CategoryID `json:"category_id,omitzero"`
	Name       string        `json:"name"`
	Price      float64       `json:"price"`
	Active     bool          `json:"active"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Category groups products within one store.
type Category struct {
	ID      id.CategoryID `json:"id"`
	StoreID id.StoreID    `json:"store_id"`
	Name    string        `json:"name"`
}
