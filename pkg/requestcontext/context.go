// Package requestcontext carries request-scoped values between middleware and
// services without importing net/http.
//
//	storeID, ok := requestcontext.SelectedStoreID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	id "storefront/pkg/domain"
)

// key is a typed context key. Each value type gets its own key so lookups
// never need a type switch.
type key[T any] struct{ name string }

func (k key[T]) get(ctx context.Context) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

func (k key[T]) with(ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, k, v)
}

var (
	userKey      = key[id.UserID]{"user"}
	sessionKey   = key[id.SessionID]{"session"}
	selectionKey = key[id.StoreID]{"selected_store"}
	clientIPKey  = key[string]{"client_ip"}
	userAgentKey = key[string]{"user_agent"}
	requestKey   = key[string]{"request_id"}
	clockKey     = key[time.Time]{"request_time"}
)

// UserID returns the authenticated user, or the nil id for anonymous requests.
func UserID(ctx context.Context) id.UserID {
	v, _ := userKey.get(ctx)
	return v
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return userKey.with(ctx, userID)
}

func SessionID(ctx context.Context) id.SessionID {
	v, _ := sessionKey.get(ctx)
	return v
}

func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return sessionKey.with(ctx, sessionID)
}

// SelectedStoreID returns the store the session previously selected, if the
// request carried one.
func SelectedStoreID(ctx context.Context) (id.StoreID, bool) {
	storeID, ok := selectionKey.get(ctx)
	if !ok || storeID.IsNil() {
		return id.StoreID{}, false
	}
	return storeID, true
}

func WithSelectedStoreID(ctx context.Context, storeID id.StoreID) context.Context {
	return selectionKey.with(ctx, storeID)
}

func ClientIP(ctx context.Context) string {
	v, _ := clientIPKey.get(ctx)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := userAgentKey.get(ctx)
	return v
}

// WithClientMetadata records the caller's address and User-Agent for audit events.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return userAgentKey.with(clientIPKey.with(ctx, clientIP), userAgent)
}

func RequestID(ctx context.Context) string {
	v, _ := requestKey.get(ctx)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return requestKey.with(ctx, requestID)
}

// Now returns the time the request started. Outside a request (seeding,
// tests) it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := clockKey.get(ctx); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return clockKey.with(ctx, t)
}
