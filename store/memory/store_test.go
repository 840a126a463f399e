package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	entitle "github.com/xraph/entitle"
	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/plan"
	"github.com/xraph/entitle/store/memory"
	"github.com/xraph/entitle/subscription"
	"github.com/xraph/entitle/types"
)

func newSub(userID string, status subscription.Status, createdAgo time.Duration) *subscription.Subscription {
	now := time.Now().UTC()
	return &subscription.Subscription{
		Entity: types.Entity{
			CreatedAt: now.Add(-createdAgo),
			UpdatedAt: now.Add(-createdAgo),
		},
		ID:     id.NewSubscriptionID(),
		UserID: userID,
		Plan:   plan.Pro,
		Status: status,
	}
}

func TestCreateAndGetSubscription(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	sub := newSub("user_1", subscription.StatusActive, 0)
	if err := s.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	got, err := s.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if got.UserID != "user_1" || got.Plan != plan.Pro {
		t.Errorf("unexpected record: %+v", got)
	}

	// Duplicate IDs are rejected.
	if err := s.CreateSubscription(ctx, sub); !errors.Is(err, entitle.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetSubscriptionNotFound(t *testing.T) {
	s := memory.New()

	_, err := s.GetSubscription(context.Background(), id.NewSubscriptionID())
	if !errors.Is(err, entitle.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestGetEffectiveSubscription(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	older := newSub("user_1", subscription.StatusActive, 3*time.Hour)
	newer := newSub("user_1", subscription.StatusTrialing, 1*time.Hour)
	canceled := newSub("user_1", subscription.StatusCanceled, 30*time.Minute)
	otherUser := newSub("user_2", subscription.StatusActive, 10*time.Minute)

	for _, sub := range []*subscription.Subscription{older, newer, canceled, otherUser} {
		if err := s.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := s.GetEffectiveSubscription(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetEffectiveSubscription failed: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected most recent effective record %s, got %s", newer.ID, got.ID)
	}
}

func TestGetEffectiveSubscriptionNone(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	// A canceled record alone does not grant access.
	if err := s.CreateSubscription(ctx, newSub("user_1", subscription.StatusCanceled, time.Hour)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := s.GetEffectiveSubscription(ctx, "user_1")
	if !errors.Is(err, entitle.ErrNoEffectiveSubscription) {
		t.Fatalf("expected ErrNoEffectiveSubscription, got %v", err)
	}
}

func TestListSubscriptions(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first := newSub("user_1", subscription.StatusCanceled, 3*time.Hour)
	second := newSub("user_1", subscription.StatusActive, 1*time.Hour)
	for _, sub := range []*subscription.Subscription{first, second, newSub("user_2", subscription.StatusActive, time.Hour)} {
		if err := s.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := s.ListSubscriptions(ctx, "user_1", subscription.ListOpts{})
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	active, err := s.ListSubscriptions(ctx, "user_1", subscription.ListOpts{Status: subscription.StatusActive})
	if err != nil {
		t.Fatalf("ListSubscriptions with status failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("expected only the active record, got %d", len(active))
	}

	limited, err := s.ListSubscriptions(ctx, "user_1", subscription.ListOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListSubscriptions with paging failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != first.ID {
		t.Errorf("expected the older record on page 2, got %v", limited)
	}
}

func TestUpdateSubscription(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	sub := newSub("user_1", subscription.StatusActive, time.Hour)
	if err := s.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sub.CancelAtPeriodEnd = true
	if err := s.UpdateSubscription(ctx, sub); err != nil {
		t.Fatalf("UpdateSubscription failed: %v", err)
	}

	got, err := s.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if !got.CancelAtPeriodEnd {
		t.Error("expected update to persist")
	}
}

func TestUpdateSubscriptionMissing(t *testing.T) {
	s := memory.New()

	err := s.UpdateSubscription(context.Background(), newSub("user_1", subscription.StatusActive, 0))
	if !errors.Is(err, entitle.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestStoredRecordsAreIsolated(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	sub := newSub("user_1", subscription.StatusActive, time.Hour)
	if err := s.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Mutating the caller's copy must not reach the store.
	sub.Status = subscription.StatusCanceled

	got, err := s.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if got.Status != subscription.StatusActive {
		t.Errorf("stored record was mutated through the caller's pointer: %q", got.Status)
	}
}

func TestAppendAuditEvent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		evt := &audithook.Event{
			ID:           id.NewAuditEventID(),
			Action:       audithook.ActionLicenseActivated,
			ResourceType: audithook.ResourceLicense,
			Outcome:      audithook.OutcomeSuccess,
			Timestamp:    time.Now().UTC(),
		}
		if err := s.AppendAuditEvent(ctx, evt); err != nil {
			t.Fatalf("AppendAuditEvent failed: %v", err)
		}
	}

	events := s.AuditEvents()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
}
