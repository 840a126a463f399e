// Package plugin provides an extensible plugin system for the
// subscription and license manager. Plugins can hook into lifecycle
// events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/provider"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCanceled is called after a cancellation commits locally.
// The subscription reflects the post-cancellation state; immediately
// distinguishes a hard cancel from a deferred one.
type OnSubscriptionCanceled interface {
	Plugin
	OnSubscriptionCanceled(ctx context.Context, actor types.Identity, sub *subscription.Subscription, immediately bool) error
}

// ──────────────────────────────────────────────────
// License lifecycle hooks
// ──────────────────────────────────────────────────
//
// License hooks receive the redacted key, never the raw one.

// OnLicenseActivated is called after the provider activates a license.
type OnLicenseActivated interface {
	Plugin
	OnLicenseActivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) error
}

// OnLicenseDeactivated is called after the provider deactivates a license.
type OnLicenseDeactivated interface {
	Plugin
	OnLicenseDeactivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) error
}

// OnLicenseValidated is called after every validation round-trip,
// whether the key turned out valid or not.
type OnLicenseValidated interface {
	Plugin
	OnLicenseValidated(ctx context.Context, actor types.Identity, redactedKey string, result *license.Validation) error
}

// ──────────────────────────────────────────────────
// Provider hooks
// ──────────────────────────────────────────────────

// ProviderPlugin supplies an entitlement provider implementation.
type ProviderPlugin interface {
	Plugin
	Provider() provider.Client
}

// OnProviderSync is called after a best-effort provider reconciliation
// attempt, successful or not.
type OnProviderSync interface {
	Plugin
	OnProviderSync(ctx context.Context, providerName string, success bool, err error) error
}
