// Package tenant resolves which store an authenticated session operates
// against and exposes the dashboard's store endpoints.
package tenant

import (
	"log/slog"

	"storefront/internal/tenant/handler"
	"storefront/internal/tenant/selection"
	"storefront/internal/tenant/service"
)

// Service resolves and selects stores.
type Service = service.Service

// Handler wires HTTP endpoints to the tenant service.
type Handler = handler.Handler

// NewService constructs the tenant service with required dependencies.
func NewService(stores service.StoreStore, memberships service.MembershipStore, provider service.IdentityProvider, opts ...service.Option) *Service {
	return service.New(stores, memberships, provider, opts...)
}

// NewHandler constructs the HTTP handler for dashboard store routes.
func NewHandler(s *Service, cookie *selection.Cookie, logger *slog.Logger, opts ...handler.Option) *Handler {
	return handler.New(s, cookie, logger, opts...)
}
