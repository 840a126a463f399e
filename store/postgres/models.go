package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/plan"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

// ==================== Subscription models ====================

type subscriptionModel struct {
	grove.BaseModel `grove:"table:entitle_subscriptions"`

	ID                 string            `grove:"id,pk"`
	UserID             string            `grove:"user_id"`
	Plan               string            `grove:"plan"`
	Status             string            `grove:"status"`
	BillingCycle       string            `grove:"billing_cycle"`
	CurrentPeriodStart time.Time         `grove:"current_period_start"`
	CurrentPeriodEnd   time.Time         `grove:"current_period_end"`
	CancelAtPeriodEnd  bool              `grove:"cancel_at_period_end"`
	CanceledAt         *time.Time        `grove:"canceled_at"`
	ProviderID         string            `grove:"provider_id"`
	ProviderName       string            `grove:"provider_name"`
	Metadata           map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt          time.Time         `grove:"created_at"`
	UpdatedAt          time.Time         `grove:"updated_at"`
}

func toSubscriptionModel(s *subscription.Subscription) *subscriptionModel {
	return &subscriptionModel{
		ID:                 s.ID.String(),
		UserID:             s.UserID,
		Plan:               string(s.Plan),
		Status:             string(s.Status),
		BillingCycle:       s.BillingCycle,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		CanceledAt:         s.CanceledAt,
		ProviderID:         s.ProviderID,
		ProviderName:       s.ProviderName,
		Metadata:           s.Metadata,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func fromSubscriptionModel(m *subscriptionModel) (*subscription.Subscription, error) {
	subID, err := id.ParseSubscriptionID(m.ID)
	if err != nil {
		return nil, err
	}

	return &subscription.Subscription{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                 subID,
		UserID:             m.UserID,
		Plan:               plan.Key(m.Plan),
		Status:             subscription.Status(m.Status),
		BillingCycle:       m.BillingCycle,
		CurrentPeriodStart: m.CurrentPeriodStart,
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CancelAtPeriodEnd:  m.CancelAtPeriodEnd,
		CanceledAt:         m.CanceledAt,
		ProviderID:         m.ProviderID,
		ProviderName:       m.ProviderName,
		Metadata:           m.Metadata,
	}, nil
}

// ==================== Audit models ====================

type auditEventModel struct {
	grove.BaseModel `grove:"table:entitle_audit_events"`

	ID           string          `grove:"id,pk"`
	Action       string          `grove:"action"`
	ResourceType string          `grove:"resource_type"`
	ResourceID   string          `grove:"resource_id"`
	UserID       string          `grove:"user_id"`
	IPAddress    string          `grove:"ip_address"`
	UserAgent    string          `grove:"user_agent"`
	Outcome      string          `grove:"outcome"`
	Metadata     json.RawMessage `grove:"metadata,type:jsonb"`
	Timestamp    time.Time       `grove:"timestamp"`
}

func toAuditEventModel(evt *audithook.Event) *auditEventModel {
	meta, _ := json.Marshal(evt.Metadata) //nolint:errcheck // best-effort

	return &auditEventModel{
		ID:           evt.ID.String(),
		Action:       evt.Action,
		ResourceType: evt.ResourceType,
		ResourceID:   evt.ResourceID,
		UserID:       evt.UserID,
		IPAddress:    evt.IPAddress,
		UserAgent:    evt.UserAgent,
		Outcome:      evt.Outcome,
		Metadata:     meta,
		Timestamp:    evt.Timestamp,
	}
}
