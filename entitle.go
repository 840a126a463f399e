package entitle

import (
	"context"
	"log/slog"
	"time"

	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/plugin"
	"github.com/xraph/entitle/provider"
	"github.com/xraph/entitle/store"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// Engine is the subscription and license lifecycle manager.
//
// Local subscription state is authoritative for access decisions; the
// external entitlement provider is authoritative for license state and
// the billing side of subscriptions.
type Engine struct {
	store    store.Store
	provider provider.Client
	plugins  *plugin.Registry
	logger   *slog.Logger
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithProvider sets the entitlement provider client.
func WithProvider(c provider.Client) Option {
	return func(e *Engine) {
		e.provider = c
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithAuditRecorder registers the audit hook backed by the given
// recorder. Shorthand for WithPlugin(audithook.New(r)).
func WithAuditRecorder(r audithook.Recorder, opts ...audithook.Option) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(audithook.New(r, opts...)) //nolint:errcheck // best-effort plugin registration during init
	}
}

// Plugins exposes the plugin registry.
func (e *Engine) Plugins() *plugin.Registry {
	return e.plugins
}

// Provider returns the configured entitlement provider, or nil.
func (e *Engine) Provider() provider.Client {
	return e.provider
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	// A provider plugin can supply the client when none was set directly.
	if e.provider == nil {
		if pp := e.plugins.GetProviders(); len(pp) > 0 {
			e.provider = pp[0].Provider()
		}
	}

	e.plugins.EmitInit(ctx, e)

	providerName := "none"
	if e.provider != nil {
		providerName = e.provider.Name()
	}
	e.logger.Info("entitle started",
		"provider", providerName,
		"plugins", e.plugins.Count(),
	)

	return nil
}

// Ping checks store connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Subscription Management
// ──────────────────────────────────────────────────

// CreateSubscription creates a new subscription record.
func (e *Engine) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	if sub.UserID == "" {
		return &ValidationError{Field: "userId", Message: "user id is required"}
	}
	if sub.ID == (id.SubscriptionID{}) {
		sub.ID = id.NewSubscriptionID()
	}
	sub.Entity = types.NewEntity()

	if sub.Status == "" {
		sub.Status = subscription.StatusActive
	}
	// Set initial period
	if sub.CurrentPeriodStart.IsZero() {
		sub.CurrentPeriodStart = time.Now()
		sub.CurrentPeriodEnd = time.Now().AddDate(0, 1, 0) // Monthly by default
	}

	return e.store.CreateSubscription(ctx, sub)
}

// GetSubscription retrieves a subscription by ID.
func (e *Engine) GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	return e.store.GetSubscription(ctx, subID)
}

// EffectiveSubscription returns the caller's current effective
// subscription: the most recently created record whose status grants
// access. Returns ErrNoEffectiveSubscription when the user has none.
func (e *Engine) EffectiveSubscription(ctx context.Context, actor types.Identity) (*subscription.Subscription, error) {
	if actor.IsZero() {
		return nil, ErrUnauthenticated
	}
	return e.store.GetEffectiveSubscription(ctx, actor.UserID)
}

// ListSubscriptions lists a user's subscriptions.
func (e *Engine) ListSubscriptions(ctx context.Context, userID string, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	return e.store.ListSubscriptions(ctx, userID, opts)
}

// Cancel cancels the caller's effective subscription.
//
// With immediately=false the subscription is flagged to lapse at the
// period end and access continues until then; calling again is a no-op
// that reports AlreadyCancelled without writing. With immediately=true
// the status flips to canceled right away, which also escalates a
// previously deferred cancellation.
//
// The provider-side record is canceled best-effort after the local
// write commits; a provider failure never rolls back local state.
func (e *Engine) Cancel(ctx context.Context, actor types.Identity, immediately bool) (*subscription.CancellationResult, error) {
	if actor.IsZero() {
		return nil, ErrUnauthenticated
	}

	sub, err := e.store.GetEffectiveSubscription(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if sub.CancelAtPeriodEnd && !immediately {
		return &subscription.CancellationResult{
			ID:                sub.ID,
			Status:            sub.Status,
			CancelAtPeriodEnd: true,
			AlreadyCancelled:  true,
		}, nil
	}

	now := time.Now()
	if immediately {
		sub.Status = subscription.StatusCanceled
		sub.CancelAtPeriodEnd = false
		sub.CanceledAt = &now
	} else {
		sub.CancelAtPeriodEnd = true
	}
	sub.Touch()

	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	e.reconcileProviderCancel(ctx, sub, immediately)
	e.plugins.EmitSubscriptionCanceled(ctx, actor, sub, immediately)

	return &subscription.CancellationResult{
		ID:                sub.ID,
		Status:            sub.Status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}

// reconcileProviderCancel mirrors a committed local cancellation to the
// provider. Local state is authoritative, so failures are logged and
// reported to OnProviderSync but never returned.
func (e *Engine) reconcileProviderCancel(ctx context.Context, sub *subscription.Subscription, immediately bool) {
	if e.provider == nil || sub.ProviderID == "" {
		return
	}

	name := e.provider.Name()
	if err := e.provider.CancelSubscription(ctx, sub.ProviderID, immediately); err != nil {
		e.logger.Warn("provider-side cancel failed, local state is authoritative",
			"subscription_id", sub.ID,
			"provider", name,
			"error", err,
		)
		e.plugins.EmitProviderSync(ctx, name, false, err)
		return
	}
	e.plugins.EmitProviderSync(ctx, name, true, nil)
}

// ──────────────────────────────────────────────────
// License Management
// ──────────────────────────────────────────────────

// DispatchLicense routes a license command to the matching operation.
// The returned value is *license.License for activate and deactivate,
// and *license.Validation for validate.
func (e *Engine) DispatchLicense(ctx context.Context, actor types.Identity, action license.Action, key string) (any, error) {
	switch action {
	case license.ActionActivate:
		return e.ActivateLicense(ctx, actor, key)
	case license.ActionDeactivate:
		return e.DeactivateLicense(ctx, actor, key)
	case license.ActionValidate:
		return e.ValidateLicense(ctx, actor, key)
	default:
		return nil, &ValidationError{Field: "action", Message: "unknown action " + string(action)}
	}
}

// ActivateLicense activates a license key with the provider.
func (e *Engine) ActivateLicense(ctx context.Context, actor types.Identity, key string) (*license.License, error) {
	if err := e.checkLicenseInput(actor, key); err != nil {
		return nil, err
	}

	lic, err := e.provider.ActivateLicense(ctx, key)
	if err != nil {
		return nil, AsLicenseError(err)
	}

	e.plugins.EmitLicenseActivated(ctx, actor, license.RedactKey(key), lic)
	return lic, nil
}

// DeactivateLicense releases a license activation with the provider.
func (e *Engine) DeactivateLicense(ctx context.Context, actor types.Identity, key string) (*license.License, error) {
	if err := e.checkLicenseInput(actor, key); err != nil {
		return nil, err
	}

	lic, err := e.provider.DeactivateLicense(ctx, key)
	if err != nil {
		return nil, AsLicenseError(err)
	}

	e.plugins.EmitLicenseDeactivated(ctx, actor, license.RedactKey(key), lic)
	return lic, nil
}

// ValidateLicense checks a license key against the provider. The
// provider's verdict passes through unmodified, valid or not.
func (e *Engine) ValidateLicense(ctx context.Context, actor types.Identity, key string) (*license.Validation, error) {
	if err := e.checkLicenseInput(actor, key); err != nil {
		return nil, err
	}

	result, err := e.provider.ValidateLicense(ctx, key)
	if err != nil {
		return nil, AsLicenseError(err)
	}

	e.plugins.EmitLicenseValidated(ctx, actor, license.RedactKey(key), result)
	return result, nil
}

func (e *Engine) checkLicenseInput(actor types.Identity, key string) error {
	if actor.IsZero() {
		return ErrUnauthenticated
	}
	if key == "" {
		return &ValidationError{Field: "key", Message: "license key is required"}
	}
	if e.provider == nil {
		return ErrProviderNotConfigured
	}
	return nil
}

// ──────────────────────────────────────────────────
// Product Management
// ──────────────────────────────────────────────────

// CreateProduct creates a product in the provider's catalog.
func (e *Engine) CreateProduct(ctx context.Context, p *provider.Product) (*provider.Product, error) {
	if e.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	if p.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "product name is required"}
	}

	created, err := e.provider.CreateProduct(ctx, p)
	if err != nil {
		return nil, AsProductError(err)
	}
	return created, nil
}

// GetProduct fetches a product from the provider's catalog.
func (e *Engine) GetProduct(ctx context.Context, productID string) (*provider.Product, error) {
	if e.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	if productID == "" {
		return nil, &ValidationError{Field: "productId", Message: "product id is required"}
	}

	p, err := e.provider.GetProduct(ctx, productID)
	if err != nil {
		return nil, AsProductError(err)
	}
	return p, nil
}

// ListProducts lists the provider's product catalog.
func (e *Engine) ListProducts(ctx context.Context) ([]*provider.Product, error) {
	if e.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	products, err := e.provider.ListProducts(ctx)
	if err != nil {
		return nil, AsProductError(err)
	}
	return products, nil
}
