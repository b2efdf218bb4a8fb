package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

func TestNewEvent_CopiesRequestMetadata(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-123")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.7", firefoxUA)

	userID := id.UserID(uuid.New())
	storeID := id.StoreID(uuid.New())
	e := NewEvent(ctx, EventStoreSelected, userID, storeID)

	assert.Equal(t, CategoryOperations, e.Category)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "store_selected", e.Action)
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, storeID, e.StoreID)
	assert.Equal(t, "req-123", e.RequestID)
	assert.Equal(t, "203.0.113.7", e.ClientIP)
	assert.True(t, strings.HasPrefix(e.Browser, "Firefox"))
}

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategorySecurity, EventStoreSelectionDenied.Category())
	assert.Equal(t, CategorySecurity, EventSelectionFallback.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("unknown").Category())
}

func TestBrowserLabel(t *testing.T) {
	assert.Equal(t, "", BrowserLabel(""))
	assert.Equal(t, "bot", BrowserLabel("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	assert.Equal(t, "Firefox 128.0", BrowserLabel(firefoxUA))
}
