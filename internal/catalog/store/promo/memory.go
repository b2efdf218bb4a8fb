package promo

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

// InMemory keeps promos per store, most recent first.
type InMemory struct {
	mu      sync.RWMutex
	byStore map[id.StoreID][]models.Promo
	ids     map[id.PromoID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		byStore: make(map[id.StoreID][]models.Promo),
		ids:     make(map[id.PromoID]struct{}),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Promo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[p.ID]; exists {
		return sentinel.ErrConflict
	}
	s.ids[p.ID] = struct{}{}
	list := append(s.byStore[p.StoreID], clonePromo(*p))
	sort.SliceStable(list, func(i, j int) bool { return newerFirst(list[i], list[j]) })
	s.byStore[p.StoreID] = list
	return nil
}

// ListByStore returns all promos of the store, active or not, most recently
// created first. Pricing relies on this order for its tie-break.
func (s *InMemory) ListByStore(_ context.Context, storeID id.StoreID) ([]models.Promo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byStore[storeID]
	out := make([]models.Promo, len(stored))
	for i, p := range stored {
		out[i] = clonePromo(p)
	}
	return out, nil
}

func clonePromo(p models.Promo) models.Promo {
	if p.ProductIDs != nil {
		p.ProductIDs = append([]id.ProductID(nil), p.ProductIDs...)
	}
	return p
}

func newerFirst(a, b models.Promo) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}
