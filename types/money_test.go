package types_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xraph/entitle/types"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    types.Money
		amount   int64
		currency string
	}{
		{"USD", types.USD(4900), 4900, "usd"},
		{"EUR", types.EUR(19900), 19900, "eur"},
		{"GBP", types.GBP(2500), 2500, "gbp"},
		{"Zero", types.Zero("USD"), 0, "usd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("expected amount %d, got %d", tt.amount, tt.money.Amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("expected currency %q, got %q", tt.currency, tt.money.Currency)
			}
		})
	}
}

func TestMoneyAdd(t *testing.T) {
	sum := types.USD(1000).Add(types.USD(250))
	if sum.Amount != 1250 {
		t.Errorf("expected 1250, got %d", sum.Amount)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on currency mismatch")
		}
	}()
	types.USD(100).Add(types.EUR(100))
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		money types.Money
		want  string
	}{
		{types.USD(4900), "$49.00"},
		{types.EUR(19900), "€199.00"},
		{types.GBP(99), "£0.99"},
		{types.USD(-4900), "$-49.00"},
	}

	for _, tt := range tests {
		if got := tt.money.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	data, err := json.Marshal(types.USD(4900))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"display":"$49.00"`) {
		t.Errorf("expected display field, got %s", data)
	}
	if !strings.Contains(string(data), `"amount":4900`) {
		t.Errorf("expected amount field, got %s", data)
	}
}

func TestMoneyPredicates(t *testing.T) {
	if !types.Zero("usd").IsZero() {
		t.Error("Zero should be zero")
	}
	if !types.USD(1).IsPositive() {
		t.Error("USD(1) should be positive")
	}
	if types.USD(-1).IsPositive() {
		t.Error("USD(-1) should not be positive")
	}
	if !types.USD(100).Equal(types.USD(100)) {
		t.Error("equal values should be Equal")
	}
	if types.USD(100).Equal(types.EUR(100)) {
		t.Error("different currencies should not be Equal")
	}
}

func TestIdentityIsZero(t *testing.T) {
	if !(types.Identity{}).IsZero() {
		t.Error("empty identity should be zero")
	}
	if (types.Identity{UserID: "user_1"}).IsZero() {
		t.Error("identity with user id should not be zero")
	}
	// IP and UA without a user are still anonymous.
	if !(types.Identity{IPAddress: "203.0.113.7"}).IsZero() {
		t.Error("identity without user id should be zero")
	}
}
