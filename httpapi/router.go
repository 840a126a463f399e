// Package httpapi exposes the engine's operations over HTTP.
//
// The handler is a plain chi router so it can be mounted anywhere.
// Callers supply an Authenticator that resolves the request to an
// Identity; requests it rejects get a 401 before reaching the engine.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	entitle "github.com/xraph/entitle"
	"github.com/xraph/entitle/types"
)

// Authenticator resolves the authenticated caller of a request.
// Returning false rejects the request with 401.
type Authenticator func(r *http.Request) (types.Identity, bool)

// Handler is the HTTP adapter entrypoint for the engine.
type Handler struct {
	engine *entitle.Engine
	auth   Authenticator
	logger *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler constructs an HTTP handler bound to the engine.
func NewHandler(engine *entitle.Engine, auth Authenticator, opts ...Option) *Handler {
	h := &Handler{
		engine: engine,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter registers the HTTP routes.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handler.healthz)
	r.Get("/products", handler.listProducts)
	r.Get("/products/{product_id}", handler.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Get("/subscription", handler.getSubscription)
		r.Post("/subscription/cancel", handler.cancelSubscription)
		r.Post("/licenses", handler.dispatchLicense)
	})

	return r
}

type identityKey struct{}

// authMiddleware resolves the caller's identity and stores it on the
// request context for the handlers below it.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
			return
		}
		actor, ok := h.auth(r)
		if !ok || actor.IsZero() {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
			return
		}
		ctx := withIdentity(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
