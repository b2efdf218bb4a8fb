// Package identity is the storefront's Identity Provider: it turns a session
// token into an Identity once per request and serves it from the request
// context afterwards.
package identity

import (
	"context"

	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

// Identity is the authenticated user behind a session.
type Identity struct {
	UserID    id.UserID
	SessionID id.SessionID
}

// ContextProvider reads the identity placed on the context by the Session
// middleware. Calls never leave the process.
type ContextProvider struct{}

// Session returns the request's identity, or false when the request carries no
// valid session.
func (ContextProvider) Session(ctx context.Context) (Identity, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return Identity{}, false
	}
	return Identity{UserID: userID, SessionID: requestcontext.SessionID(ctx)}, true
}
