package testutil

import (
	"net/http"

	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

// WithSession attaches an identity to the request the way the session
// middleware does for a valid token.
func WithSession(req *http.Request, userID id.UserID, sessionID id.SessionID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithSessionID(ctx, sessionID)
	return req.WithContext(ctx)
}

// WithSelectedStore attaches a persisted store selection to the request.
func WithSelectedStore(req *http.Request, storeID id.StoreID) *http.Request {
	return req.WithContext(requestcontext.WithSelectedStoreID(req.Context(), storeID))
}
