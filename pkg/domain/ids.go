// Package domain holds typed identifiers shared across the storefront modules.
//
// Each identifier wraps a uuid.UUID so that a StoreID can never be passed where a
// ProductID is expected. Parse functions are the only sanctioned way to build an
// ID from external input; they reject empty, malformed and nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "storefront/pkg/domain-errors"
)

type (
	UserID       uuid.UUID
	SessionID    uuid.UUID
	StoreID      uuid.UUID
	MembershipID uuid.UUID
	ProductID    uuid.UUID
	CategoryID   uuid.UUID
	PromoID      uuid.UUID
)

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id SessionID) String() string    { return uuid.UUID(id).String() }
func (id StoreID) String() string      { return uuid.UUID(id).String() }
func (id MembershipID) String() string { return uuid.UUID(id).String() }
func (id ProductID) String() string    { return uuid.UUID(id).String() }
func (id CategoryID) String() string   { return uuid.UUID(id).String() }
func (id PromoID) String() string      { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id StoreID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id MembershipID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PromoID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session_id")
	return SessionID(u), err
}

func ParseStoreID(s string) (StoreID, error) {
	u, err := parseUUID(s, "store_id")
	return StoreID(u), err
}

func ParseMembershipID(s string) (MembershipID, error) {
	u, err := parseUUID(s, "membership_id")
	return MembershipID(u), err
}

func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID(s, "product_id")
	return ProductID(u), err
}

func ParseCategoryID(s string) (CategoryID, error) {
	u, err := parseUUID(s, "category_id")
	return CategoryID(u), err
}

func ParsePromoID(s string) (PromoID, error) {
	u, err := parseUUID(s, "promo_id")
	return PromoID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}
