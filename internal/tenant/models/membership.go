package models

import (
	"time"

	id "storefront/pkg/domain"
)

// Role is the access level a membership grants.
type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleStaff
}

// Membership grants an identity operational access to a store.
// Memberships are ordered by (CreatedAt, ID); the first one is the identity's
// default store when no selection exists.
type Membership struct {
	ID        id.MembershipID `json:"id"`
	UserID    id.UserID       `json:"user_id"`
	StoreID   id.StoreID      `json:"store_id"`
	Role      Role            `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// Before reports whether m sorts ahead of other in default-store order.
func (m *Membership) Before(other *Membership) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID.String() < other.ID.String()
}
