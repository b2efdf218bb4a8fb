// Package catalog serves store catalogues with promo pricing applied and lets
// sellers manage promos from the dashboard.
package catalog

import (
	"log/slog"

	"storefront/internal/catalog/handler"
	"storefront/internal/catalog/service"
)

type Service = service.Service

type Handler = handler.Handler

func NewService(stores service.StoreLookup, products service.ProductStore, categories service.CategoryStore, promos service.PromoStore, opts ...service.Option) *Service {
	return service.New(stores, products, categories, promos, opts...)
}

func NewHandler(s *Service, resolver handler.Resolver, logger *slog.Logger, opts ...handler.Option) *Handler {
	return handler.New(s, resolver, logger, opts...)
}
