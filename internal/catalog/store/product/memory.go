package product

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

// InMemory keeps products per store in creation order.
type InMemory struct {
	mu      sync.RWMutex
	byStore map[id.StoreID][]models.Product
	ids     map[id.ProductID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		byStore: make(map[id.StoreID][]models.Product),
		ids:     make(map[id.ProductID]struct{}),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[p.ID]; exists {
		return sentinel.ErrConflict
	}
	s.ids[p.ID] = struct{}{}
	list := append(s.byStore[p.StoreID], *p)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	s.byStore[p.StoreID] = list
	return nil
}

// ListByStore returns the store's products, oldest first. Inactive products
// are included only when includeInactive is set.
func (s *InMemory) ListByStore(_ context.Context, storeID id.StoreID, includeInactive bool) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.byStore[storeID]))
	for _, p := range s.byStore[storeID] {
		if p.Active || includeInactive {
			out = append(out, p)
		}
	}
	return out, nil
}
