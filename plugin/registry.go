package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onSubscriptionCanceled []OnSubscriptionCanceled
	onLicenseActivated     []OnLicenseActivated
	onLicenseDeactivated   []OnLicenseDeactivated
	onLicenseValidated     []OnLicenseValidated
	onProviderSync         []OnProviderSync
	providers              []ProviderPlugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnSubscriptionCanceled); ok {
		r.onSubscriptionCanceled = append(r.onSubscriptionCanceled, v)
	}
	if v, ok := p.(OnLicenseActivated); ok {
		r.onLicenseActivated = append(r.onLicenseActivated, v)
	}
	if v, ok := p.(OnLicenseDeactivated); ok {
		r.onLicenseDeactivated = append(r.onLicenseDeactivated, v)
	}
	if v, ok := p.(OnLicenseValidated); ok {
		r.onLicenseValidated = append(r.onLicenseValidated, v)
	}
	if v, ok := p.(OnProviderSync); ok {
		r.onProviderSync = append(r.onProviderSync, v)
	}
	if v, ok := p.(ProviderPlugin); ok {
		r.providers = append(r.providers, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnSubscriptionCanceled)(nil)).Elem(), "OnSubscriptionCanceled")
	checkInterface(reflect.TypeOf((*OnLicenseActivated)(nil)).Elem(), "OnLicenseActivated")
	checkInterface(reflect.TypeOf((*OnLicenseDeactivated)(nil)).Elem(), "OnLicenseDeactivated")
	checkInterface(reflect.TypeOf((*OnLicenseValidated)(nil)).Elem(), "OnLicenseValidated")
	checkInterface(reflect.TypeOf((*OnProviderSync)(nil)).Elem(), "OnProviderSync")
	checkInterface(reflect.TypeOf((*ProviderPlugin)(nil)).Elem(), "Provider")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// GetProviders returns all registered provider plugins.
func (r *Registry) GetProviders() []ProviderPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ProviderPlugin, len(r.providers))
	copy(result, r.providers)
	return result
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSubscriptionCanceled emits a subscription canceled event.
func (r *Registry) EmitSubscriptionCanceled(ctx context.Context, actor types.Identity, sub *subscription.Subscription, immediately bool) {
	r.mu.RLock()
	plugins := r.onSubscriptionCanceled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSubscriptionCanceled(ctx, actor, sub, immediately)
		}); err != nil {
			r.logger.Warn("plugin OnSubscriptionCanceled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLicenseActivated emits a license activated event.
func (r *Registry) EmitLicenseActivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) {
	r.mu.RLock()
	plugins := r.onLicenseActivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLicenseActivated(ctx, actor, redactedKey, lic)
		}); err != nil {
			r.logger.Warn("plugin OnLicenseActivated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLicenseDeactivated emits a license deactivated event.
func (r *Registry) EmitLicenseDeactivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) {
	r.mu.RLock()
	plugins := r.onLicenseDeactivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLicenseDeactivated(ctx, actor, redactedKey, lic)
		}); err != nil {
			r.logger.Warn("plugin OnLicenseDeactivated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLicenseValidated emits a license validated event.
func (r *Registry) EmitLicenseValidated(ctx context.Context, actor types.Identity, redactedKey string, result *license.Validation) {
	r.mu.RLock()
	plugins := r.onLicenseValidated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLicenseValidated(ctx, actor, redactedKey, result)
		}); err != nil {
			r.logger.Warn("plugin OnLicenseValidated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitProviderSync emits a provider sync event.
func (r *Registry) EmitProviderSync(ctx context.Context, providerName string, success bool, syncErr error) {
	r.mu.RLock()
	plugins := r.onProviderSync
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProviderSync(ctx, providerName, success, syncErr)
		}); err != nil {
			r.logger.Warn("plugin OnProviderSync failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the lifecycle pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
