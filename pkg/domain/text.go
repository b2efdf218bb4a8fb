package domain

import "github.com/google/uuid"

// Identifiers encode as canonical UUID strings in JSON and other text formats.

func (id UserID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id StoreID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id MembershipID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ProductID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id CategoryID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id PromoID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *StoreID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MembershipID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ProductID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CategoryID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PromoID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
