package tenant

import (
	"context"
	"sync"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

// InMemory keeps stores in a map for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	stores map[id.StoreID]*models.Store
}

func NewInMemory() *InMemory {
	return &InMemory{stores: make(map[id.StoreID]*models.Store)}
}

func (s *InMemory) Create(_ context.Context, store *models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.stores[store.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *store
	s.stores[store.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, storeID id.StoreID) (*models.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.stores[storeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *store
	return &clone, nil
}

func (s *InMemory) Delete(_ context.Context, storeID id.StoreID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[storeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.stores, storeID)
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stores), nil
}
