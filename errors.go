package entitle

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound        = errors.New("entitle: not found")
	ErrAlreadyExists   = errors.New("entitle: already exists")
	ErrInvalidInput    = errors.New("entitle: invalid input")
	ErrUnauthenticated = errors.New("entitle: unauthenticated")

	// Subscription errors
	ErrSubscriptionNotFound    = errors.New("entitle: subscription not found")
	ErrNoEffectiveSubscription = errors.New("entitle: no effective subscription")

	// Provider errors
	ErrProviderNotConfigured = errors.New("entitle: provider not configured")
	ErrProviderUnavailable   = errors.New("entitle: provider unavailable")

	// Store errors
	ErrStoreNotReady   = errors.New("entitle: store not ready")
	ErrStoreClosed     = errors.New("entitle: store is closed")
	ErrMigrationFailed = errors.New("entitle: migration failed")
)

// Defaults applied when the provider omits error details.
const (
	DefaultLicenseErrorCode = "LICENSE_ERROR"
	DefaultProductErrorCode = "PRODUCT_ERROR"
	DefaultErrorStatus      = 500
)

// ValidationError represents a validation failure with details.
// It is always client-caused and maps to HTTP 400 at the boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entitle: validation failed for %s: %s", e.Field, e.Message)
}

// LicenseError is a provider-reported failure on a license operation.
// Code, Message and Status pass through from the provider; missing
// fields get defaults.
type LicenseError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Status  int            `json:"-"`
}

func (e *LicenseError) Error() string {
	return fmt.Sprintf("entitle: license error %s: %s", e.Code, e.Message)
}

// NewLicenseError builds a LicenseError, filling defaults for a missing
// code or status.
func NewLicenseError(code, message string, status int) *LicenseError {
	if code == "" {
		code = DefaultLicenseErrorCode
	}
	if status == 0 {
		status = DefaultErrorStatus
	}
	return &LicenseError{Code: code, Message: message, Status: status}
}

// ProductError is a provider-reported failure on a product operation.
type ProductError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Status  int            `json:"-"`
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("entitle: product error %s: %s", e.Code, e.Message)
}

// NewProductError builds a ProductError, filling defaults for a missing
// code or status.
func NewProductError(code, message string, status int) *ProductError {
	if code == "" {
		code = DefaultProductErrorCode
	}
	if status == 0 {
		status = DefaultErrorStatus
	}
	return &ProductError{Code: code, Message: message, Status: status}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound) ||
		errors.Is(err, ErrNoEffectiveSubscription)
}

// IsValidation returns true if the error is client-caused bad input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidInput)
}

// AsLicenseError normalizes any error from a license operation into a
// *LicenseError. Provider business errors pass through untouched;
// everything else (connectivity, decoding) gets the generic defaults.
func AsLicenseError(err error) *LicenseError {
	var le *LicenseError
	if errors.As(err, &le) {
		if le.Code == "" {
			le.Code = DefaultLicenseErrorCode
		}
		if le.Status == 0 {
			le.Status = DefaultErrorStatus
		}
		return le
	}
	return NewLicenseError("", err.Error(), 0)
}

// AsProductError normalizes any error from a product operation into a
// *ProductError.
func AsProductError(err error) *ProductError {
	var pe *ProductError
	if errors.As(err, &pe) {
		if pe.Code == "" {
			pe.Code = DefaultProductErrorCode
		}
		if pe.Status == 0 {
			pe.Status = DefaultErrorStatus
		}
		return pe
	}
	return NewProductError("", err.Error(), 0)
}
