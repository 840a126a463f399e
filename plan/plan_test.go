package plan_test

import (
	"testing"

	"github.com/xraph/entitle/plan"
)

func TestKnown(t *testing.T) {
	for _, k := range plan.All() {
		if !plan.Known(k) {
			t.Errorf("expected %q to be known", k)
		}
	}
	if plan.Known("platinum") {
		t.Error("expected unknown key to be rejected")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key  plan.Key
		want string
	}{
		{plan.Starter, "Starter"},
		{plan.Pro, "Pro"},
		{plan.Business, "Business"},
		{plan.Enterprise, "Enterprise"},
		{"legacy_tier", "legacy_tier"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := plan.DisplayName(tt.key); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
