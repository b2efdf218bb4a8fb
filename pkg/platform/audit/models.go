package audit

import (
	"time"

	"github.com/google/uuid"

	id "storefront/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// route and retain them differently.
type EventCategory string

const (
	// CategorySecurity covers access decisions: denied selections, stale selections.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine tenant activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    id.UserID     `json:"user_id"`
	StoreID   id.StoreID    `json:"store_id"`
	Action    string        `json:"action"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	ClientIP  string        `json:"client_ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	// Browser is a coarse label derived from UserAgent, e.g. "Firefox 128.0".
	Browser string `json:"browser,omitempty"`
}

type AuditEvent string

const (
	EventStoreSelected        AuditEvent = "store_selected"
	EventStoreSelectionDenied AuditEvent = "store_selection_denied"
	EventSelectionFallback    AuditEvent = "store_selection_fallback"
	EventPromoCreated         AuditEvent = "promo_created"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventStoreSelectionDenied: CategorySecurity,
	EventSelectionFallback:    CategorySecurity,

	EventStoreSelected: CategoryOperations,
	EventPromoCreated:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// OutboxEntry is a persisted event waiting for delivery to the broker.
type OutboxEntry struct {
	ID    uuid.UUID
	Event Event
}
