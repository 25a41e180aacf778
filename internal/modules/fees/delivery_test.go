package fees

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
)

func TestDeliveryFee(t *testing.T) {
	created := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		meters   float64
		dateMult string
		timeMult string
		region   string
		want     string
	}{
		// (5 - 3) x 2 = 4.00.
		{name: "two chargeable km", meters: 5000, want: "4"},
		{name: "inside free distance", meters: 2500, want: "0"},
		{name: "exactly free distance", meters: 3000, want: "0"},
		// 4.00 x 1.5 holiday date multiplier = 6.00.
		{name: "holiday date multiplier", meters: 5000, dateMult: "1.5", want: "6"},
		// 4.00 x 1.5 x 1.2 = 7.20.
		{name: "date then time multiplier", meters: 5000, dateMult: "1.5", timeMult: "1.2", want: "7.2"},
		// 4.00 x 1.25 region average = 5.00.
		{name: "region multiplier", meters: 5000, region: "1.25", want: "5"},
		// Order of application matters for rounding: 3333m -> 0.67, then
		// x1.1 = 0.74 (0.737 rounds up), then x1.1 = 0.81 (0.814 down).
		{name: "re-rounds after each multiplier", meters: 3333, dateMult: "1.1", timeMult: "1.1", want: "0.81"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := stubCalendar{}
			if tt.dateMult != "" {
				cal.dateMult = dec(tt.dateMult)
			}
			if tt.timeMult != "" {
				cal.timeMult = dec(tt.timeMult)
			}
			reg := stubRegion{}
			if tt.region != "" {
				reg.rate = dec(tt.region)
			}
			p := &pipeline{
				category: rates.CategoryMail,
				cfg:      testConfig(),
				distance: stubDistance{meters: tt.meters},
				region:   reg,
				calendar: cal,
				logger:   zap.NewNop(),
			}
			o := &testOrder{category: rates.CategoryMail, created: &created}

			got, err := p.deliveryFee(context.Background(), o, created)
			if err != nil {
				t.Fatalf("deliveryFee() error = %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("deliveryFee() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeliveryFeeMonotonicInDistance(t *testing.T) {
	created := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	prev := decimal.Zero
	for meters := 1000.0; meters <= 19000; meters += 1500 {
		p := &pipeline{
			category: rates.CategoryMail,
			cfg:      testConfig(),
			distance: stubDistance{meters: meters},
			region:   stubRegion{},
			calendar: stubCalendar{},
			logger:   zap.NewNop(),
		}
		o := &testOrder{category: rates.CategoryMail, created: &created}
		fee, err := p.deliveryFee(context.Background(), o, created)
		if err != nil {
			t.Fatalf("deliveryFee(%v m) error = %v", meters, err)
		}
		if fee.LessThan(prev) {
			t.Fatalf("deliveryFee(%v m) = %s, less than previous %s", meters, fee, prev)
		}
		prev = fee
	}
}

func TestDeliveryFeeBeyondMaxDistance(t *testing.T) {
	created := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	p := &pipeline{
		category: rates.CategoryMail,
		cfg:      testConfig(),
		distance: stubDistance{meters: 25000}, // MAIL max is 20km
		region:   stubRegion{},
		calendar: stubCalendar{},
		logger:   zap.NewNop(),
	}
	o := &testOrder{category: rates.CategoryMail, created: &created}

	if _, err := p.deliveryFee(context.Background(), o, created); err == nil {
		t.Fatal("deliveryFee() beyond max distance: expected error")
	}
}

func TestDeliveryFeeMissingCreationTimeUsesNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	p := &pipeline{
		category: rates.CategoryMail,
		cfg:      testConfig(),
		distance: stubDistance{meters: 5000},
		region:   stubRegion{},
		calendar: stubCalendar{dateMult: dec("1.5")},
		logger:   zap.NewNop(),
	}
	o := &testOrder{category: rates.CategoryMail} // no creation time

	got, err := p.deliveryFee(context.Background(), o, now)
	if err != nil {
		t.Fatalf("deliveryFee() error = %v", err)
	}
	if !got.Equal(dec("6")) {
		t.Errorf("deliveryFee() = %s, want 6 (multipliers taken from now)", got)
	}
}
