package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
)

func TestInMemory_ListByStoreSortsByName(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	storeID := id.StoreID(uuid.New())
	for _, name := range []string{"Teas", "Spices", "Oils"} {
		require.NoError(t, s.Create(ctx, &models.Category{ID: id.CategoryID(uuid.New()), StoreID: storeID, Name: name}))
	}
	require.NoError(t, s.Create(ctx, &models.Category{ID: id.CategoryID(uuid.New()), StoreID: id.StoreID(uuid.New()), Name: "Other"}))

	list, err := s.ListByStore(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Oils", "Spices", "Teas"}, []string{list[0].Name, list[1].Name, list[2].Name})
}
