package store

import (
	"context"

	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/subscription"
)

// Store is the unified storage interface for all persisted entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Subscription methods
	CreateSubscription(ctx context.Context, s *subscription.Subscription) error
	GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error)
	// GetEffectiveSubscription returns the user's most recently created
	// subscription whose status grants access (active or trialing), or
	// entitle.ErrNoEffectiveSubscription when none exists.
	GetEffectiveSubscription(ctx context.Context, userID string) (*subscription.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string, opts subscription.ListOpts) ([]*subscription.Subscription, error)
	UpdateSubscription(ctx context.Context, s *subscription.Subscription) error

	// Audit methods. Events are append-only; nothing reads them back
	// through this interface.
	AppendAuditEvent(ctx context.Context, evt *audithook.Event) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
