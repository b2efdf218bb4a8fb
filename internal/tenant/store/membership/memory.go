package membership

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

type membershipKey struct {
	userID  id.UserID
	storeID id.StoreID
}

// InMemory keeps memberships in maps for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	byKey  map[membershipKey]*models.Membership
	byUser map[id.UserID][]*models.Membership
}

func NewInMemory() *InMemory {
	return &InMemory{
		byKey:  make(map[membershipKey]*models.Membership),
		byUser: make(map[id.UserID][]*models.Membership),
	}
}

func (s *InMemory) Create(_ context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{userID: m.UserID, storeID: m.StoreID}
	if _, exists := s.byKey[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *m
	s.byKey[key] = &clone

	list := append(s.byUser[m.UserID], &clone)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Before(list[j]) })
	s.byUser[m.UserID] = list
	return nil
}

// ListByUser returns the user's memberships in default-store order.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byUser[userID]
	out := make([]*models.Membership, 0, len(list))
	for _, m := range list {
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

// FirstByUser returns the user's earliest membership.
func (s *InMemory) FirstByUser(_ context.Context, userID id.UserID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byUser[userID]
	if len(list) == 0 {
		return nil, sentinel.ErrNotFound
	}
	clone := *list[0]
	return &clone, nil
}

func (s *InMemory) Exists(_ context.Context, userID id.UserID, storeID id.StoreID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byKey[membershipKey{userID: userID, storeID: storeID}]
	return ok, nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID, storeID id.StoreID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{userID: userID, storeID: storeID}
	if _, ok := s.byKey[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byKey, key)

	list := s.byUser[userID]
	kept := list[:0]
	for _, m := range list {
		if m.StoreID != storeID {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(s.byUser, userID)
	} else {
		s.byUser[userID] = kept
	}
	return nil
}
