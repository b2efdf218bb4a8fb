package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "storefront/pkg/domain"
)

func TestSelectedStoreID(t *testing.T) {
	t.Run("absent when not set", func(t *testing.T) {
		_, ok := SelectedStoreID(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil store id counts as absent", func(t *testing.T) {
		ctx := WithSelectedStoreID(context.Background(), id.StoreID{})
		_, ok := SelectedStoreID(ctx)
		assert.False(t, ok)
	})

	t.Run("returns injected store id", func(t *testing.T) {
		storeID := id.StoreID(uuid.New())
		got, ok := SelectedStoreID(WithSelectedStoreID(context.Background(), storeID))
		assert.True(t, ok)
		assert.Equal(t, storeID, got)
	})
}

func TestNowFallsBackToWallClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}

func TestIdentityAccessors(t *testing.T) {
	userID := id.UserID(uuid.New())
	sessionID := id.SessionID(uuid.New())
	ctx := WithSessionID(WithUserID(context.Background(), userID), sessionID)

	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, sessionID, SessionID(ctx))
	assert.True(t, UserID(context.Background()).IsNil())
}

func TestStringValuesDoNotCollide(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "192.0.2.1", "curl/8.0")
	ctx = WithRequestID(ctx, "req-1")

	assert.Equal(t, "192.0.2.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
