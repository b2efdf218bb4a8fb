package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/identity"
	tenantmetrics "storefront/internal/tenant/metrics"
	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/audit"
	"storefront/pkg/platform/reqcache"
	"storefront/pkg/platform/sentinel"
	"storefront/pkg/requestcontext"
)

// currentStoreKey is the request cache key of the memoized resolution.
const currentStoreKey = "tenant.current_store"

var tracer = otel.Tracer("storefront/internal/tenant/service")

type StoreStore interface {
	FindByID(ctx context.Context, storeID id.StoreID) (*models.Store, error)
}

type MembershipStore interface {
	FirstByUser(ctx context.Context, userID id.UserID) (*models.Membership, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Membership, error)
	Exists(ctx context.Context, userID id.UserID, storeID id.StoreID) (bool, error)
}

type IdentityProvider interface {
	Session(ctx context.Context) (identity.Identity, bool)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// SelectionSink persists a store selection for later requests of the session.
type SelectionSink interface {
	PersistSelection(storeID id.StoreID)
}

// Service resolves which store a session operates against and records explicit
// store selections.
//
// A persisted selection is trusted on read: membership is checked when the
// selection is written, not every time it is used, unless selection
// revalidation is enabled.
type Service struct {
	stores      StoreStore
	memberships MembershipStore
	identity    IdentityProvider
	logger      *slog.Logger
	audit       AuditPublisher
	metrics     *tenantmetrics.Metrics
	revalidate  bool
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

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSelectionRevalidation re-checks membership whenever a persisted selection
// is read. A selection whose membership was revoked falls back to the default
// store.
func WithSelectionRevalidation(enabled bool) Option {
	return func(s *Service) {
		s.revalidate = enabled
	}
}

// New constructs a Service.
func New(stores StoreStore, memberships MembershipStore, provider IdentityProvider, opts ...Option) *Service {
	s := &Service{
		stores:      stores,
		memberships: memberships,
		identity:    provider,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveCurrentStore returns the store the request's session operates
// against. The first call in a request does the work; later calls in the same
// request return the memoized result, errors included.
//
// Errors: CodeUnauthenticated without a session, CodeNoStoreForIdentity when
// the identity has no usable membership, CodeInternal on backend failure.
func (s *Service) ResolveCurrentStore(ctx context.Context) (*models.Store, error) {
	return reqcache.Memoize(ctx, currentStoreKey, s.resolveCurrentStore)
}

// Resolve is ResolveCurrentStore with routing failures turned into directives.
// Only failures without a recovery path are returned as errors.
func (s *Service) Resolve(ctx context.Context) (models.Resolution, error) {
	store, err := s.ResolveCurrentStore(ctx)
	if err == nil {
		return models.Resolution{Store: store}, nil
	}
	directive := models.DirectiveFor(err)
	if directive == models.DirectiveNone {
		return models.Resolution{}, err
	}
	return models.Resolution{Directive: directive}, nil
}

func (s *Service) resolveCurrentStore(ctx context.Context) (store *models.Store, err error) {
	ctx, span := tracer.Start(ctx, "tenant.ResolveCurrentStore")
	start := time.Now()
	outcome := tenantmetrics.OutcomeError
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("store.id", store.ID.String()))
		}
		span.SetAttributes(attribute.String("resolution.outcome", outcome))
		span.End()
		s.observeResolve(start, outcome)
	}()

	ident, ok := s.identity.Session(ctx)
	if !ok {
		outcome = tenantmetrics.OutcomeUnauthenticated
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "authentication required")
	}

	if storeID, ok := requestcontext.SelectedStoreID(ctx); ok {
		selected, err := s.loadSelectedStore(ctx, ident, storeID)
		if err != nil {
			return nil, err
		}
		if selected != nil {
			outcome = tenantmetrics.OutcomeSelected
			return selected, nil
		}
	}

	store, err = s.defaultStore(ctx, ident)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNoStoreForIdentity) {
			outcome = tenantmetrics.OutcomeNoStore
		}
		return nil, err
	}
	outcome = tenantmetrics.OutcomeDefault
	return store, nil
}

// loadSelectedStore returns the selected store, or nil when the selection is
// stale and resolution should fall back to the default store.
func (s *Service) loadSelectedStore(ctx context.Context, ident identity.Identity, storeID id.StoreID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.selectionFallback(ctx, ident, storeID, "store not found")
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load selected store")
	}
	if !s.revalidate {
		return store, nil
	}
	member, err := s.memberships.Exists(ctx, ident.UserID, storeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check store membership")
	}
	if !member {
		s.selectionFallback(ctx, ident, storeID, "membership revoked")
		return nil, nil
	}
	return store, nil
}

// defaultStore returns the store of the earliest membership whose store still
// exists. Memberships cascade with their store, so a dangling one only shows
// up around a concurrent delete; the next membership in order is used then.
func (s *Service) defaultStore(ctx context.Context, ident identity.Identity) (*models.Store, error) {
	first, err := s.memberships.FirstByUser(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNoStoreForIdentity, "identity has no store")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load memberships")
	}
	store, err := s.stores.FindByID(ctx, first.StoreID)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load default store")
	}
	s.danglingMembership(ctx, ident, first.StoreID)

	memberships, err := s.memberships.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load memberships")
	}
	for _, m := range memberships {
		if m.StoreID == first.StoreID {
			continue
		}
		store, err := s.stores.FindByID(ctx, m.StoreID)
		switch {
		case err == nil:
			return store, nil
		case errors.Is(err, sentinel.ErrNotFound):
			s.danglingMembership(ctx, ident, m.StoreID)
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load default store")
		}
	}
	return nil, dErrors.New(dErrors.CodeNoStoreForIdentity, "identity has no store")
}

func (s *Service) danglingMembership(ctx context.Context, ident identity.Identity, storeID id.StoreID) {
	s.logger.WarnContext(ctx, "membership points at a missing store",
		"user_id", ident.UserID.String(),
		"store_id", storeID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

// SelectStore records storeID as the session's current store after checking
// that the identity is a member. Nothing is persisted when a check fails.
//
// Errors: CodeUnauthenticated, CodeStoreNotFound, CodeForbidden, CodeInternal.
func (s *Service) SelectStore(ctx context.Context, storeID id.StoreID, sink SelectionSink) (*models.Store, error) {
	ident, ok := s.identity.Session(ctx)
	if !ok {
		s.selectionFailure("unauthenticated")
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "authentication required")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.selectionFailure("store_not_found")
			return nil, dErrors.New(dErrors.CodeStoreNotFound, "store not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load store")
	}

	member, err := s.memberships.Exists(ctx, ident.UserID, storeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check store membership")
	}
	if !member {
		s.selectionFailure("forbidden")
		s.emit(ctx, audit.EventStoreSelectionDenied, ident.UserID, storeID, "")
		return nil, dErrors.New(dErrors.CodeForbidden, "not a member of this store")
	}

	sink.PersistSelection(store.ID)
	reqcache.From(ctx).Forget(currentStoreKey)
	s.emit(ctx, audit.EventStoreSelected, ident.UserID, store.ID, "")
	return store, nil
}

// ListStores returns the identity's stores in default-store order. Stores
// deleted since the listing began are skipped.
func (s *Service) ListStores(ctx context.Context) ([]*models.Store, error) {
	ident, ok := s.identity.Session(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "authentication required")
	}
	memberships, err := s.memberships.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load memberships")
	}
	stores := make([]*models.Store, 0, len(memberships))
	for _, m := range memberships {
		store, err := s.stores.FindByID(ctx, m.StoreID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load store")
		}
		stores = append(stores, store)
	}
	return stores, nil
}

func (s *Service) selectionFallback(ctx context.Context, ident identity.Identity, storeID id.StoreID, reason string) {
	s.logger.WarnContext(ctx, "ignoring stale store selection",
		"reason", reason,
		"user_id", ident.UserID.String(),
		"store_id", storeID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementSelectionFallback()
	}
	s.emit(ctx, audit.EventSelectionFallback, ident.UserID, storeID, reason)
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID id.UserID, storeID id.StoreID, reason string) {
	s.logger.InfoContext(ctx, string(action),
		"user_id", userID.String(),
		"store_id", storeID.String(),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.audit == nil {
		return
	}
	event := audit.NewEvent(ctx, action, userID, storeID)
	event.Reason = reason
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(action), "error", err)
	}
}

func (s *Service) observeResolve(start time.Time, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveResolve(start)
	s.metrics.IncrementResolution(outcome)
}

func (s *Service) selectionFailure(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementSelectionFailure(reason)
	}
}
