package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

type StoreCreator interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, storeID id.StoreID) (*models.Store, error)
}

type MembershipCreator interface {
	Create(ctx context.Context, m *models.Membership) error
	Exists(ctx context.Context, userID id.UserID, storeID id.StoreID) (bool, error)
}

// DemoStore describes one seeded store.
type DemoStore struct {
	ID    id.StoreID
	Name  string
	Theme string
}

// DemoStores are stable so repeated seeding is idempotent.
var DemoStores = []DemoStore{
	{ID: id.StoreID(uuid.MustParse("5b1f7a2c-3d4e-4f60-9a1b-2c3d4e5f6a01")), Name: "Atlas Spices", Theme: `{"accent":"#c0392b"}`},
	{ID: id.StoreID(uuid.MustParse("5b1f7a2c-3d4e-4f60-9a1b-2c3d4e5f6a02")), Name: "Riad Ceramics", Theme: `{"accent":"#1f6f8b"}`},
}

// SeedDemo creates the demo stores owned by ownerID, memberships ordered as
// listed. Existing rows are left untouched. Rows are looked up before they are
// written so the seed can run inside a single transaction.
func SeedDemo(ctx context.Context, stores StoreCreator, memberships MembershipCreator, ownerID id.UserID, currency string, now time.Time) ([]*models.Store, error) {
	seeded := make([]*models.Store, 0, len(DemoStores))
	for i, demo := range DemoStores {
		store, err := models.NewStore(demo.ID, ownerID, demo.Name, currency, json.RawMessage(demo.Theme), now)
		if err != nil {
			return nil, err
		}
		existing, err := stores.FindByID(ctx, demo.ID)
		switch {
		case err == nil:
			store = existing
		case errors.Is(err, sentinel.ErrNotFound):
			if err := stores.Create(ctx, store); err != nil && !errors.Is(err, sentinel.ErrConflict) {
				return nil, fmt.Errorf("seed store %s: %w", demo.Name, err)
			}
		default:
			return nil, fmt.Errorf("seed store %s: %w", demo.Name, err)
		}
		member, err := memberships.Exists(ctx, ownerID, store.ID)
		if err != nil {
			return nil, fmt.Errorf("seed membership %s: %w", demo.Name, err)
		}
		if member {
			seeded = append(seeded, store)
			continue
		}
		m := &models.Membership{
			ID:        id.MembershipID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(ownerID.String()+demo.ID.String()))),
			UserID:    ownerID,
			StoreID:   store.ID,
			Role:      models.RoleOwner,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := memberships.Create(ctx, m); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return nil, fmt.Errorf("seed membership %s: %w", demo.Name, err)
		}
		seeded = append(seeded, store)
	}
	return seeded, nil
}
