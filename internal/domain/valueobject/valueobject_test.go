package valueobject

import (
	"math"
	"testing"

	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

func TestProjectStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ProjectStatus
		want     bool
	}{
		{ProjectStatusInProgress, ProjectStatusCompleted, true},
		{ProjectStatusOpen, ProjectStatusInProgress, false},
		{ProjectStatusOpen, ProjectStatusCompleted, false},
		{ProjectStatusCompleted, ProjectStatusOpen, false},
		{ProjectStatusInProgress, ProjectStatusOpen, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%q -> %q: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestNewBidDecision(t *testing.T) {
	if _, err := NewBidDecision("accepted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewBidDecision("rejected"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := NewBidDecision("pending")
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for pending, got %v", err)
	}
}

func TestNewPaymentMethod_DefaultsToMoney(t *testing.T) {
	m, err := NewPaymentMethod("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != PaymentMethodMoney {
		t.Errorf("expected money, got %s", m)
	}

	if _, err := NewPaymentMethod("crypto"); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
}

func TestNewPaymentOffer(t *testing.T) {
	offer, err := NewPaymentOffer(nil)
	if err != nil || offer != nil {
		t.Fatalf("expected nil offer without error, got %v, %v", offer, err)
	}

	zero := 0.0
	offer, err = NewPaymentOffer(&zero)
	if err != nil || offer == nil || offer.Amount != 0 {
		t.Fatalf("expected zero offer, got %v, %v", offer, err)
	}

	negative := -5.0
	if _, err := NewPaymentOffer(&negative); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewMoney_Bounds(t *testing.T) {
	tests := []struct {
		amount float64
		valid  bool
	}{
		{0, true},
		{10.01, true},
		{0.1, true},
		{MaxMoneyAmount, true},
		{MaxMoneyAmount + 0.01, false},
		{1e13, false},
		{10.005, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		m, err := NewMoney(tt.amount)
		if tt.valid {
			if err != nil {
				t.Errorf("%v: unexpected error: %v", tt.amount, err)
				continue
			}
			if m.Amount != tt.amount {
				t.Errorf("%v: amount changed to %v", tt.amount, m.Amount)
			}
			continue
		}
		if !apperror.IsValidation(err) {
			t.Errorf("%v: expected validation error, got %v", tt.amount, err)
		}
	}
}

func TestNewSkillSet_NormalizesInput(t *testing.T) {
	set := NewSkillSet([]string{" illustration", "", "Go", "go ", "illustration", "  "})

	if len(set) != 2 {
		t.Fatalf("expected 2 skills, got %v", set)
	}
	if set[0] != "illustration" || set[1] != "Go" {
		t.Errorf("unexpected order or values: %v", set)
	}
	if !set.Contains("GO") {
		t.Error("expected case-insensitive match")
	}
	if NewSkillSet(nil).Strings() == nil {
		t.Error("expected non-nil slice for JSON encoding")
	}
}
