// Package audithook bridges lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend
// on any particular backend. Callers inject a RecorderFunc adapter at
// wiring time, typically one that appends to the store's audit table
// or forwards to an external audit pipeline.
//
// Recording is fire-and-forget: a failing recorder is logged and never
// fails the operation that produced the event.
package audithook

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/plugin"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnSubscriptionCanceled = (*Extension)(nil)
	_ plugin.OnLicenseActivated     = (*Extension)(nil)
	_ plugin.OnLicenseDeactivated   = (*Extension)(nil)
	_ plugin.OnLicenseValidated     = (*Extension)(nil)
	_ plugin.OnProviderSync         = (*Extension)(nil)
)

// Event is one audit trail record. Events are append-only; nothing in
// the manager ever reads them back.
type Event struct {
	ID           id.AuditEventID `json:"id"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	Outcome      string          `json:"outcome"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Extension bridges lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	// Validation is a read-only check and can be high-volume; it is not
	// audited unless a caller opts in with WithEnabledActions.
	WithDisabledActions(ActionLicenseValidated)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCanceled implements plugin.OnSubscriptionCanceled.
func (e *Extension) OnSubscriptionCanceled(ctx context.Context, actor types.Identity, sub *subscription.Subscription, immediately bool) error {
	e.record(ctx, ActionSubscriptionCanceled, OutcomeSuccess,
		ResourceSubscription, sub.ID.String(), actor, map[string]any{
			"plan":                 string(sub.Plan),
			"status":               string(sub.Status),
			"immediately":          immediately,
			"cancel_at_period_end": sub.CancelAtPeriodEnd,
		})
	return nil
}

// ──────────────────────────────────────────────────
// License lifecycle hooks
// ──────────────────────────────────────────────────
//
// The redacted key arrives pre-redacted from the dispatch path; raw
// keys never reach this package.

// OnLicenseActivated implements plugin.OnLicenseActivated.
func (e *Extension) OnLicenseActivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) error {
	e.record(ctx, ActionLicenseActivated, OutcomeSuccess,
		ResourceLicense, lic.ID, actor, map[string]any{
			"key":    redactedKey,
			"status": lic.Status,
		})
	return nil
}

// OnLicenseDeactivated implements plugin.OnLicenseDeactivated.
func (e *Extension) OnLicenseDeactivated(ctx context.Context, actor types.Identity, redactedKey string, lic *license.License) error {
	e.record(ctx, ActionLicenseDeactivated, OutcomeSuccess,
		ResourceLicense, lic.ID, actor, map[string]any{
			"key":    redactedKey,
			"status": lic.Status,
		})
	return nil
}

// OnLicenseValidated implements plugin.OnLicenseValidated.
func (e *Extension) OnLicenseValidated(ctx context.Context, actor types.Identity, redactedKey string, result *license.Validation) error {
	outcome := OutcomeSuccess
	if !result.Valid {
		outcome = OutcomeFailure
	}
	var resourceID string
	if result.License != nil {
		resourceID = result.License.ID
	}
	e.record(ctx, ActionLicenseValidated, outcome,
		ResourceLicense, resourceID, actor, map[string]any{
			"key":   redactedKey,
			"valid": result.Valid,
		})
	return nil
}

// ──────────────────────────────────────────────────
// Provider hooks
// ──────────────────────────────────────────────────

// OnProviderSync implements plugin.OnProviderSync.
func (e *Extension) OnProviderSync(ctx context.Context, providerName string, success bool, err error) error {
	outcome := OutcomeSuccess
	meta := map[string]any{"provider": providerName}
	if !success {
		outcome = OutcomeFailure
		if err != nil {
			meta["error"] = err.Error()
		}
	}
	e.record(ctx, ActionProviderSync, outcome,
		ResourceProvider, providerName, types.Identity{}, meta)
	return nil
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged and swallowed.
func (e *Extension) record(
	ctx context.Context,
	action, outcome string,
	resourceType, resourceID string,
	actor types.Identity,
	meta map[string]any,
) {
	if e.enabled != nil && !e.enabled[action] {
		return
	}

	evt := &Event{
		ID:           id.NewAuditEventID(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UserID:       actor.UserID,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		Outcome:      outcome,
		Metadata:     meta,
		Timestamp:    time.Now().UTC(),
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
}
