package category

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

type InMemory struct {
	mu         sync.RWMutex
	categories map[id.CategoryID]models.Category
}

func NewInMemory() *InMemory {
	return &InMemory{categories: make(map[id.CategoryID]models.Category)}
}

func (s *InMemory) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.categories[c.ID] = *c
	return nil
}

// ListByStore returns the store's categories sorted by name.
func (s *InMemory) ListByStore(_ context.Context, storeID id.StoreID) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
