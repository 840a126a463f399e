package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	entitle "github.com/xraph/entitle"
	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/types"
)

func withIdentity(ctx context.Context, actor types.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, actor)
}

func identityFrom(ctx context.Context) types.Identity {
	actor, _ := ctx.Value(identityKey{}).(types.Identity)
	return actor
}

// healthz reports store connectivity.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "UNHEALTHY", err.Error(), nil)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getSubscription returns the caller's effective subscription, or a
// null payload when they have none. Having no subscription is a normal
// state for free users, not an error.
func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	actor := identityFrom(r.Context())

	sub, err := h.engine.EffectiveSubscription(r.Context(), actor)
	if err != nil {
		if errors.Is(err, entitle.ErrNoEffectiveSubscription) {
			writeSuccess(w, http.StatusOK, nil)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sub)
}

type cancelRequest struct {
	Immediately bool `json:"immediately"`
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	actor := identityFrom(r.Context())

	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
			return
		}
	}

	result, err := h.engine.Cancel(r.Context(), actor, req.Immediately)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type licenseRequest struct {
	Key string `json:"key"`
}

// dispatchLicense routes POST /licenses?action=... to the matching
// license operation.
func (h *Handler) dispatchLicense(w http.ResponseWriter, r *http.Request) {
	actor := identityFrom(r.Context())

	action, err := license.ParseAction(r.URL.Query().Get("action"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTION", err.Error(), nil)
		return
	}

	var req licenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
		return
	}

	result, err := h.engine.DispatchLicense(r.Context(), actor, action, req.Key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.engine.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	product, err := h.engine.GetProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, product)
}
