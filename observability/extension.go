// Package observability provides a metrics extension that records
// lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/plugin"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnSubscriptionCanceled = (*MetricsExtension)(nil)
	_ plugin.OnLicenseActivated     = (*MetricsExtension)(nil)
	_ plugin.OnLicenseDeactivated   = (*MetricsExtension)(nil)
	_ plugin.OnLicenseValidated     = (*MetricsExtension)(nil)
	_ plugin.OnProviderSync         = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track usage.
type MetricsExtension struct {
	factory MetricFactory

	// Subscription metrics
	SubscriptionCanceled         Counter
	SubscriptionCanceledDeferred Counter

	// License metrics
	LicenseActivated   Counter
	LicenseDeactivated Counter
	LicenseValidated   Counter
	LicenseInvalid     Counter

	// Provider metrics
	ProviderSyncSuccess Counter
	ProviderSyncFailure Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Subscription metrics
		SubscriptionCanceled:         factory.Counter("entitle.subscription.canceled"),
		SubscriptionCanceledDeferred: factory.Counter("entitle.subscription.canceled.deferred"),

		// License metrics
		LicenseActivated:   factory.Counter("entitle.license.activated"),
		LicenseDeactivated: factory.Counter("entitle.license.deactivated"),
		LicenseValidated:   factory.Counter("entitle.license.validated"),
		LicenseInvalid:     factory.Counter("entitle.license.invalid"),

		// Provider metrics
		ProviderSyncSuccess: factory.Counter("entitle.provider.sync.success"),
		ProviderSyncFailure: factory.Counter("entitle.provider.sync.failure"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCanceled implements plugin.OnSubscriptionCanceled.
func (m *MetricsExtension) OnSubscriptionCanceled(_ context.Context, _ types.Identity, _ *subscription.Subscription, immediately bool) error {
	m.SubscriptionCanceled.Inc()
	if !immediately {
		m.SubscriptionCanceledDeferred.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// License lifecycle hooks
// ──────────────────────────────────────────────────

// OnLicenseActivated implements plugin.OnLicenseActivated.
func (m *MetricsExtension) OnLicenseActivated(_ context.Context, _ types.Identity, _ string, _ *license.License) error {
	m.LicenseActivated.Inc()
	return nil
}

// OnLicenseDeactivated implements plugin.OnLicenseDeactivated.
func (m *MetricsExtension) OnLicenseDeactivated(_ context.Context, _ types.Identity, _ string, _ *license.License) error {
	m.LicenseDeactivated.Inc()
	return nil
}

// OnLicenseValidated implements plugin.OnLicenseValidated.
func (m *MetricsExtension) OnLicenseValidated(_ context.Context, _ types.Identity, _ string, result *license.Validation) error {
	m.LicenseValidated.Inc()
	if !result.Valid {
		m.LicenseInvalid.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Provider lifecycle hooks
// ──────────────────────────────────────────────────

// OnProviderSync implements plugin.OnProviderSync.
func (m *MetricsExtension) OnProviderSync(_ context.Context, _ string, success bool, _ error) error {
	if success {
		m.ProviderSyncSuccess.Inc()
	} else {
		m.ProviderSyncFailure.Inc()
	}
	return nil
}
