package subscription

import (
	"time"

	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/plan"
	"github.com/xraph/entitle/types"
)

// Status is the local subscription state. The provider may report other
// states; those are carried through as opaque values.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription is the local record of a user's paid plan. The provider is
// authoritative for payment state; this record drives what the user sees.
type Subscription struct {
	types.Entity
	ID                 id.SubscriptionID `json:"id"`
	UserID             string            `json:"user_id"`
	Plan               plan.Key          `json:"plan"`
	Status             Status            `json:"status"`
	BillingCycle       string            `json:"billing_cycle"`
	CurrentPeriodStart time.Time         `json:"current_period_start"`
	CurrentPeriodEnd   time.Time         `json:"current_period_end"`
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	CanceledAt         *time.Time        `json:"canceled_at,omitempty"`
	ProviderID         string            `json:"provider_id,omitempty"`
	ProviderName       string            `json:"provider_name,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// IsTrial reports whether the subscription is in its trial period.
func (s *Subscription) IsTrial() bool {
	return s.Status == StatusTrialing
}

// IsEffective reports whether this record can represent the user's
// current paid access.
func (s *Subscription) IsEffective() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}

// PlanDisplayName returns the human-readable plan name.
func (s *Subscription) PlanDisplayName() string {
	return plan.DisplayName(s.Plan)
}

// CancellationResult summarizes the outcome of a cancel operation.
type CancellationResult struct {
	ID                id.SubscriptionID `json:"id"`
	Status            Status            `json:"status"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	AlreadyCancelled  bool              `json:"already_cancelled,omitempty"`
}
