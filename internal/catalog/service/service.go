package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	catalogmetrics "storefront/internal/catalog/metrics"
	"storefront/internal/catalog/models"
	"storefront/internal/pricing"
	tenantmodels "storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/audit"
	"storefront/pkg/platform/reqcache"
	"storefront/pkg/platform/sentinel"
	"storefront/pkg/requestcontext"
)

var tracer = otel.Tracer("storefront/internal/catalog/service")

type StoreLookup interface {
	FindByID(ctx context.Context, storeID id.StoreID) (*tenantmodels.Store, error)
}

type ProductStore interface {
	ListByStore(ctx context.Context, storeID id.StoreID, includeInactive bool) ([]models.Product, error)
}

type CategoryStore interface {
	ListByStore(ctx context.Context, storeID id.StoreID) ([]models.Category, error)
}

type PromoStore interface {
	Create(ctx context.Context, promo *models.Promo) error
	ListByStore(ctx context.Context, storeID id.StoreID) ([]models.Promo, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Popup is the promo a storefront announces in its popup.
type Popup struct {
	Promo models.Promo `json:"promo"`
	Label string       `json:"discount_label"`
}

// Storefront is a store's public catalogue with prices resolved.
type Storefront struct {
	StoreID    id.StoreID              `json:"store_id"`
	StoreName  string                  `json:"store_name"`
	Currency   string                  `json:"currency"`
	Categories []models.Category       `json:"categories"`
	Products   []pricing.PricedProduct `json:"products"`
	Popup      *Popup                  `json:"popup,omitempty"`
}

// Service manages a store's products and promos and assembles priced
// catalogues. Callers are expected to have resolved which store they act on.
type Service struct {
	stores     StoreLookup
	products   ProductStore
	categories CategoryStore
	promos     PromoStore
	logger     *slog.Logger
	audit      AuditPublisher
	metrics    *catalogmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *catalogmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(stores StoreLookup, products ProductStore, categories CategoryStore, promos PromoStore, opts ...Option) *Service {
	s := &Service{
		stores:     stores,
		products:   products,
		categories: categories,
		promos:     promos,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListProducts returns the store's active products, oldest first.
func (s *Service) ListProducts(ctx context.Context, storeID id.StoreID) ([]models.Product, error) {
	products, err := s.products.ListByStore(ctx, storeID, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// ListPromos returns every promo of the store, active or not, most recent
// first. This is the order the pricing resolver expects.
func (s *Service) ListPromos(ctx context.Context, storeID id.StoreID) ([]models.Promo, error) {
	promos, err := s.promos.ListByStore(ctx, storeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list promos")
	}
	return promos, nil
}

// CreatePromo validates req and stores it as a new promo of storeID.
// Targeted products and categories must belong to the store.
//
// Errors: CodeValidation, CodeInternal.
func (s *Service) CreatePromo(ctx context.Context, storeID id.StoreID, req CreatePromoRequest) (*models.Promo, error) {
	promo := req.toPromo(id.PromoID(uuid.New()), storeID)
	promo.CreatedAt = requestcontext.Now(ctx)
	if err := promo.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTargets(ctx, promo); err != nil {
		return nil, err
	}

	if err := s.promos.Create(ctx, promo); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "promo already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create promo")
	}

	if s.metrics != nil {
		s.metrics.IncrementPromoCreated(string(promo.Scope))
	}
	s.emitPromoCreated(ctx, promo)
	return promo, nil
}

func (s *Service) checkTargets(ctx context.Context, promo *models.Promo) error {
	switch promo.Scope {
	case models.ScopeProduct:
		products, err := s.products.ListByStore(ctx, promo.StoreID, true)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
		}
		known := make(map[id.ProductID]struct{}, len(products))
		for _, p := range products {
			known[p.ID] = struct{}{}
		}
		for _, pid := range promo.ProductIDs {
			if _, ok := known[pid]; !ok {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("product %s does not belong to this store", pid))
			}
		}
	case models.ScopeCategory:
		categories, err := s.categories.ListByStore(ctx, promo.StoreID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
		}
		for _, c := range categories {
			if c.ID == promo.CategoryID {
				return nil
			}
		}
		return dErrors.New(dErrors.CodeValidation, "category does not belong to this store")
	}
	return nil
}

// Storefront assembles the priced catalogue of storeID. The store, its
// categories, products and promos are fetched concurrently. Repeated calls
// within one request reuse the first result.
//
// Errors: CodeStoreNotFound, CodeInternal.
func (s *Service) Storefront(ctx context.Context, storeID id.StoreID) (*Storefront, error) {
	return reqcache.Memoize(ctx, "catalog.storefront:"+storeID.String(), func(ctx context.Context) (*Storefront, error) {
		return s.buildStorefront(ctx, storeID)
	})
}

func (s *Service) buildStorefront(ctx context.Context, storeID id.StoreID) (*Storefront, error) {
	ctx, span := tracer.Start(ctx, "catalog.Storefront",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("store.id", storeID.String())),
	)
	defer span.End()
	start := time.Now()

	var (
		store      *tenantmodels.Store
		categories []models.Category
		products   []models.Product
		promos     []models.Promo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		store, err = s.stores.FindByID(gctx, storeID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeStoreNotFound, "store not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load store")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.ListByStore(gctx, storeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.ListProducts(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		promos, err = s.ListPromos(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	front := &Storefront{
		StoreID:    store.ID,
		StoreName:  store.Name,
		Currency:   store.Currency,
		Categories: categories,
		Products:   pricing.ApplyCatalogue(products, promos, store.Currency),
	}
	if popup, ok := pricing.ResolvePopupPromo(promos); ok {
		front.Popup = &Popup{Promo: *popup, Label: pricing.FormatDiscountLabel(*popup, store.Currency)}
	}

	if s.metrics != nil {
		for _, item := range front.Products {
			s.metrics.ObservePriced(item.Price.HasDiscount)
		}
		s.metrics.ObserveStorefront(start)
	}
	span.SetAttributes(attribute.Int("catalogue.products", len(front.Products)))
	return front, nil
}

func (s *Service) emitPromoCreated(ctx context.Context, promo *models.Promo) {
	userID := requestcontext.UserID(ctx)
	s.logger.InfoContext(ctx, string(audit.EventPromoCreated),
		"user_id", userID.String(),
		"store_id", promo.StoreID.String(),
		"promo_id", promo.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.NewEvent(ctx, audit.EventPromoCreated, userID, promo.StoreID)); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(audit.EventPromoCreated), "error", err)
	}
}
