// Package license defines the license command vocabulary and the shapes
// returned by the entitlement provider. Licenses are never persisted
// locally; the provider is authoritative for activation state.
package license

import (
	"fmt"
	"time"
)

// Action selects a license lifecycle operation. The set is closed;
// ParseAction rejects anything else at the boundary.
type Action string

const (
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
	ActionValidate   Action = "validate"
)

// ParseAction parses a raw action selector into a closed Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionActivate:
		return ActionActivate, nil
	case ActionDeactivate:
		return ActionDeactivate, nil
	case ActionValidate:
		return ActionValidate, nil
	default:
		return "", fmt.Errorf("license: unknown action %q", s)
	}
}

// License is the provider's view of a license key after activation.
type License struct {
	ID           string         `json:"id"`
	Key          string         `json:"key,omitempty"`
	Status       string         `json:"status"`
	ActivationID string         `json:"activation_id,omitempty"`
	ProductID    string         `json:"product_id,omitempty"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// Validation is the provider's validation payload, passed through
// unmodified to the caller.
type Validation struct {
	Valid   bool           `json:"valid"`
	Status  string         `json:"status,omitempty"`
	License *License       `json:"license,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// redactPrefixLen is the number of key characters that may appear in
// logs and audit records. Everything past it is secret.
const redactPrefixLen = 8

// RedactKey returns the loggable form of a license key: the first eight
// characters followed by "...". Shorter keys are redacted entirely.
func RedactKey(key string) string {
	if len(key) < redactPrefixLen {
		return "..."
	}
	return key[:redactPrefixLen] + "..."
}
