package fees

import (
	"testing"

	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
)

func TestBaseFee(t *testing.T) {
	p := &pipeline{category: rates.CategoryMail, cfg: testConfig(), logger: zap.NewNop()}

	tests := []struct {
		name   string
		weight float64
		large  bool
		want   string
	}{
		// ceil(0.4/0.5) = 1 tier at 1/unit.
		{name: "light mail parcel", weight: 0.4, want: "1"},
		{name: "exactly one tier", weight: 0.5, want: "1"},
		{name: "two tiers", weight: 0.8, want: "2"},
		// 2kg: 4 tiers = 4.00, then x(1 + 0.2x1) = 4.80.
		{name: "overweight applies weight multiplier", weight: 2.0, want: "4.8"},
		// 0.9kg large: 2 tiers x1.5 = 3.00, no weight multiplier under 1kg.
		{name: "large item multiplier", weight: 0.9, large: true, want: "3"},
		// 2kg large: 4 x1.5 = 6.00, x1.2 = 7.20. Multiplier order: large first.
		{name: "large and overweight", weight: 2.0, large: true, want: "7.2"},
		// Failure policy: a weightless order prices at the stage default.
		{name: "missing weight falls back to default", weight: 0, want: "10"},
		{name: "negative weight falls back to default", weight: -1, want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &testOrder{category: rates.CategoryMail, weight: tt.weight, large: tt.large}
			got := p.baseFee(o)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("baseFee() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBaseFeeRounding(t *testing.T) {
	// PURCHASE: 1.3kg = 3 tiers at 2/unit = 6.00, x(1 + 0.25x0.3) = 6.45.
	// The weight factor must be rounded after the multiply, not before.
	p := &pipeline{category: rates.CategoryPurchase, cfg: testConfig(), logger: zap.NewNop()}
	o := &testOrder{category: rates.CategoryPurchase, weight: 1.3}

	got := p.baseFee(o)
	if !got.Equal(dec("6.45")) {
		t.Errorf("baseFee() = %s, want 6.45", got)
	}
	if got.Exponent() < -2 {
		t.Errorf("baseFee() = %s, not rounded to 2 decimal places", got)
	}
}
