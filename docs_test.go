package entitle_test

import (
	"context"
	"log/slog"
	"testing"

	entitle "github.com/xraph/entitle"
	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/plan"
	"github.com/xraph/entitle/store/memory"
	"github.com/xraph/entitle/subscription"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation compile and run.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		st := memory.New()

		eng := entitle.New(st,
			entitle.WithLogger(slog.Default()),
			entitle.WithAuditRecorder(audithook.RecorderFunc(st.AppendAuditEvent)),
		)

		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer eng.Stop() //nolint:errcheck

		// Create a subscription
		sub := &subscription.Subscription{
			UserID:       "u_123",
			Plan:         plan.Pro,
			Status:       subscription.StatusTrialing,
			BillingCycle: "monthly",
		}
		if err := eng.CreateSubscription(ctx, sub); err != nil {
			t.Fatal(err)
		}

		// Look up the caller's effective subscription
		got, err := eng.EffectiveSubscription(ctx, entitle.Identity{UserID: "u_123"})
		if err != nil {
			t.Fatal(err)
		}
		if got.PlanDisplayName() != "Pro" {
			t.Fatalf("unexpected plan: %s", got.PlanDisplayName())
		}

		// Cancel at period end; the trial keeps running until then
		result, err := eng.Cancel(ctx, entitle.Identity{UserID: "u_123"}, false)
		if err != nil {
			t.Fatal(err)
		}
		if !result.CancelAtPeriodEnd {
			t.Fatal("expected a deferred cancellation")
		}

		// The audit trail captured the cancellation
		if len(st.AuditEvents()) == 0 {
			t.Fatal("expected an audit event")
		}
	})
}
