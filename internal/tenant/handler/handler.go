package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/tenant/models"
	"storefront/internal/tenant/selection"
	"storefront/internal/tenant/service"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/requestcontext"
)

// DashboardPath is where a successful store selection lands.
const DashboardPath = "/dashboard"

// Service is the tenant resolver as seen by the HTTP layer.
type Service interface {
	Resolve(ctx context.Context) (models.Resolution, error)
	SelectStore(ctx context.Context, storeID id.StoreID, sink service.SelectionSink) (*models.Store, error)
	ListStores(ctx context.Context) ([]*models.Store, error)
}

// Handler serves the dashboard's store endpoints.
type Handler struct {
	service Service
	cookie  *selection.Cookie
	logger  *slog.Logger
	// writeLimit guards the routes that change the session's store.
	writeLimit func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithWriteLimit wraps state-changing routes in mw, typically a rate limiter.
func WithWriteLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.writeLimit = mw
		}
	}
}

func New(svc Service, cookie *selection.Cookie, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: svc, cookie: cookie, logger: logger, writeLimit: passThrough}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func passThrough(next http.Handler) http.Handler { return next }

// Register mounts the routes on r. Session, selection and request cache
// middlewares must already be installed.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/store", h.HandleCurrentStore)
	r.Get("/dashboard/stores", h.HandleListStores)
	r.With(h.writeLimit).Post("/dashboard/stores/select", h.HandleSelectStore)
}

// HandleCurrentStore returns the current store or redirects to where the
// session can recover (login, onboarding, store selection).
func (h *Handler) HandleCurrentStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Resolve(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve current store",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !res.Resolved() {
		http.Redirect(w, r, res.Directive.Path(), http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStoreResponse(res.Store))
}

func (h *Handler) HandleListStores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stores, err := h.service.ListStores(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthenticated) {
			http.Redirect(w, r, models.DirectiveLogin.Path(), http.StatusSeeOther)
			return
		}
		h.logger.ErrorContext(ctx, "failed to list stores",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := StoreListResponse{Stores: make([]StoreResponse, 0, len(stores))}
	for _, s := range stores {
		resp.Stores = append(resp.Stores, toStoreResponse(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSelectStore persists the chosen store and redirects to the dashboard.
// The cookie is set before the redirect status is written.
func (h *Handler) HandleSelectStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SelectStoreRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	storeID, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "invalid store_id"))
		return
	}

	if _, err := h.service.SelectStore(ctx, storeID, h.cookie.SinkFor(w)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to select store",
				"request_id", requestcontext.RequestID(ctx),
				"store_id", storeID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}
