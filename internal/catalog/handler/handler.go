package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog/models"
	"storefront/internal/catalog/service"
	tenantmodels "storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/requestcontext"
)

// Service is the catalogue service as seen by the HTTP layer.
type Service interface {
	Storefront(ctx context.Context, storeID id.StoreID) (*service.Storefront, error)
	ListPromos(ctx context.Context, storeID id.StoreID) ([]models.Promo, error)
	CreatePromo(ctx context.Context, storeID id.StoreID, req service.CreatePromoRequest) (*models.Promo, error)
}

// Resolver picks the store a dashboard request operates on.
type Resolver interface {
	Resolve(ctx context.Context) (tenantmodels.Resolution, error)
}

// Handler serves the public storefront and the dashboard's catalogue routes.
type Handler struct {
	service  Service
	resolver Resolver
	logger   *slog.Logger

	readLimit  func(http.Handler) http.Handler
	writeLimit func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithReadLimit wraps the public storefront route in mw.
func WithReadLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.readLimit = mw
		}
	}
}

// WithWriteLimit wraps promo creation in mw.
func WithWriteLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.writeLimit = mw
		}
	}
}

func New(svc Service, resolver Resolver, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:    svc,
		resolver:   resolver,
		logger:     logger,
		readLimit:  passThrough,
		writeLimit: passThrough,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func passThrough(next http.Handler) http.Handler { return next }

func (h *Handler) Register(r chi.Router) {
	r.With(h.readLimit).Get("/stores/{storeID}/catalogue", h.HandleStorefront)
	r.Get("/dashboard/catalogue", h.HandleDashboardCatalogue)
	r.With(h.writeLimit).Post("/dashboard/promos", h.HandleCreatePromo)
}

// HandleStorefront serves a store's public priced catalogue. No session is
// required.
func (h *Handler) HandleStorefront(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID, err := id.ParseStoreID(strings.TrimSpace(chi.URLParam(r, "storeID")))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid store id"))
		return
	}
	front, err := h.service.Storefront(ctx, storeID)
	if err != nil {
		h.logFailure(ctx, "failed to build storefront", storeID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, front)
}

func (h *Handler) HandleDashboardCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store, ok := h.currentStore(w, r)
	if !ok {
		return
	}
	front, err := h.service.Storefront(ctx, store.ID)
	if err != nil {
		h.logFailure(ctx, "failed to build storefront", store.ID, err)
		httputil.WriteError(w, err)
		return
	}
	promos, err := h.service.ListPromos(ctx, store.ID)
	if err != nil {
		h.logFailure(ctx, "failed to list promos", store.ID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DashboardCatalogueResponse{Storefront: front, Promos: promos})
}

// HandleCreatePromo creates a promo on the session's current store.
func (h *Handler) HandleCreatePromo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store, ok := h.currentStore(w, r)
	if !ok {
		return
	}
	var body CreatePromoRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := body.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	promo, err := h.service.CreatePromo(ctx, store.ID, req)
	if err != nil {
		h.logFailure(ctx, "failed to create promo", store.ID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, promo)
}

// currentStore resolves the dashboard's store. When it cannot, the response
// has already been written and ok is false.
func (h *Handler) currentStore(w http.ResponseWriter, r *http.Request) (*tenantmodels.Store, bool) {
	ctx := r.Context()
	res, err := h.resolver.Resolve(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve current store",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	if !res.Resolved() {
		http.Redirect(w, r, res.Directive.Path(), http.StatusSeeOther)
		return nil, false
	}
	return res.Store, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, storeID id.StoreID, err error) {
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"store_id", storeID.String(),
		"error", err,
	)
}
