package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	entitle "github.com/xraph/entitle"
)

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload) //nolint:errcheck // response already committed
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   apiError{Code: code, Message: message, Details: details},
	})
}

// writeDomainError maps engine errors onto HTTP responses. Provider
// business errors keep their own code and status; everything else maps
// to the standard taxonomy.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		ve *entitle.ValidationError
		le *entitle.LicenseError
		pe *entitle.ProductError
	)

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message,
			map[string]any{"field": ve.Field})
	case errors.As(err, &le):
		writeError(w, le.Status, le.Code, le.Message, le.Details)
	case errors.As(err, &pe):
		writeError(w, pe.Status, pe.Code, pe.Message, pe.Details)
	case errors.Is(err, entitle.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required", nil)
	case entitle.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, entitle.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, entitle.ErrProviderNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
