// Package provider defines the boundary to the external entitlement
// provider that owns products, license keys and the billing side of
// subscriptions. The manager never stores license state locally; every
// license operation is a pass-through to this interface.
package provider

import (
	"context"

	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/types"
)

// Product is the provider's catalog entry for a sellable product.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       types.Money    `json:"price"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Client is the contract an entitlement provider must implement.
//
// License methods return the provider's payload unmodified on success.
// Provider-reported business failures must surface as *entitle.LicenseError
// or *entitle.ProductError so codes and statuses pass through to callers;
// plain errors are treated as connectivity failures and normalized.
type Client interface {
	// Name identifies the provider (e.g. "polar", "stripe").
	Name() string

	// Product catalog operations.
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)

	// License lifecycle operations, keyed by the raw license key.
	ActivateLicense(ctx context.Context, key string) (*license.License, error)
	DeactivateLicense(ctx context.Context, key string) (*license.License, error)
	ValidateLicense(ctx context.Context, key string) (*license.Validation, error)

	// CancelSubscription cancels the provider-side subscription record.
	// Local state is authoritative; callers treat failures as best-effort.
	CancelSubscription(ctx context.Context, providerSubscriptionID string, immediately bool) error
}
