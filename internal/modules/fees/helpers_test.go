package fees

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// testOrder implements FeeableOrder without dragging the order module (and
// its stores) into this package's tests.
type testOrder struct {
	id        types.ID
	category  rates.Category
	created   *time.Time
	pickup    types.Point
	delivery  types.Point
	weight    float64
	large     bool
	expected  decimal.Decimal
	merchant  bool
	tier      string
	dueBy     *time.Time
	delivered *time.Time
	insured   bool
	declared  decimal.Decimal
	signature bool
	packaging bool
	income    decimal.Decimal
	standard  bool
}

func (o *testOrder) OrderID() types.ID              { return o.id }
func (o *testOrder) OrderCategory() rates.Category  { return o.category }
func (o *testOrder) CreatedAt() *time.Time          { return o.created }
func (o *testOrder) PickupPoint() types.Point       { return o.pickup }
func (o *testOrder) DeliveryPoint() types.Point     { return o.delivery }
func (o *testOrder) WeightKg() float64              { return o.weight }
func (o *testOrder) LargeItem() bool                { return o.large }
func (o *testOrder) ExpectedPrice() decimal.Decimal { return o.expected }
func (o *testOrder) HasMerchant() bool              { return o.merchant }
func (o *testOrder) MerchantTier() string           { return o.tier }
func (o *testOrder) ExpectedDeliveryAt() *time.Time { return o.dueBy }
func (o *testOrder) DeliveredAt() *time.Time        { return o.delivered }
func (o *testOrder) InsuranceRequested() bool       { return o.insured }
func (o *testOrder) DeclaredValue() decimal.Decimal { return o.declared }
func (o *testOrder) SignatureRequested() bool       { return o.signature }
func (o *testOrder) PackagingRequested() bool       { return o.packaging }
func (o *testOrder) AgentIncome() decimal.Decimal   { return o.income }
func (o *testOrder) StandardDelivery() bool         { return o.standard }

type stubDistance struct {
	meters float64
	err    error
}

func (s stubDistance) WalkingMeters(ctx context.Context, from, to types.Point) (float64, error) {
	return s.meters, s.err
}

type stubRegion struct {
	rate  decimal.Decimal
	cross bool
	err   error
}

func (s stubRegion) Multiplier(ctx context.Context, pickup, delivery types.Point) (decimal.Decimal, bool, error) {
	if s.err != nil {
		return decimal.Zero, false, s.err
	}
	rate := s.rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return rate, s.cross, nil
}

type stubCalendar struct {
	holiday  bool
	dateMult decimal.Decimal
	timeMult decimal.Decimal
}

func (s stubCalendar) IsHoliday(t time.Time) bool { return s.holiday }

func (s stubCalendar) DateRateMultiplier(t time.Time, cat rates.Category) decimal.Decimal {
	if s.dateMult.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.dateMult
}

func (s stubCalendar) TimeRangeMultiplier(hour int, cat rates.Category) decimal.Decimal {
	if s.timeMult.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.timeMult
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testConfig mirrors the sample tariff in configs/rates.yml:
// MAIL base rate 1/unit, 3 free km at 2/km, PICKUP timeout 5.00 with 0.5
// weight multiplier and 0.1/hour escalation capped at 24 hours.
func testConfig() *rates.Config {
	cfg := &rates.Config{
		Rates: map[rates.Category]rates.Rate{
			rates.CategoryMail: {
				BaseRate:            dec("1"),
				ServiceRate:         dec("0.1"),
				LargeItemMultiplier: dec("1.5"),
				WeightMultiplier:    dec("0.2"),
			},
			rates.CategoryShopping: {
				BaseRate:            dec("1.5"),
				ServiceRate:         dec("0.12"),
				LargeItemMultiplier: dec("1.5"),
				WeightMultiplier:    dec("0.2"),
			},
			rates.CategoryPurchase: {
				BaseRate:            dec("2"),
				ServiceRate:         dec("0.15"),
				LargeItemMultiplier: dec("1.8"),
				WeightMultiplier:    dec("0.25"),
			},
		},
		Distance: map[rates.Category]rates.DistanceRate{
			rates.CategoryMail:     {FreeKm: dec("3"), PerKm: dec("2"), MaxKm: dec("20")},
			rates.CategoryShopping: {FreeKm: dec("2"), PerKm: dec("2.5"), MaxKm: dec("15")},
			rates.CategoryPurchase: {FreeKm: dec("2"), PerKm: dec("3"), MaxKm: dec("25")},
		},
		Timeout: rates.TimeoutTable{
			BaseFees: map[rates.Category]map[rates.TimeoutKind]decimal.Decimal{
				rates.CategoryMail: {
					rates.TimeoutPickup:       dec("5"),
					rates.TimeoutDelivery:     dec("8"),
					rates.TimeoutConfirmation: dec("3"),
				},
				rates.CategoryShopping: {
					rates.TimeoutPickup:   dec("6"),
					rates.TimeoutDelivery: dec("9"),
				},
				rates.CategoryPurchase: {
					rates.TimeoutPickup: dec("6"),
				},
			},
			DeadlinesMin: map[rates.Category]map[rates.TimeoutKind]int{
				rates.CategoryMail: {
					rates.TimeoutPickup:       30,
					rates.TimeoutDelivery:     120,
					rates.TimeoutConfirmation: 1440,
				},
			},
			LargeItemMultiplier: dec("1.5"),
			WeightMultiplier:    dec("0.5"),
			HolidayMultiplier:   dec("1.5"),
			MaxEscalationHours:  24,
			HourlyRate:          dec("0.1"),
		},
		Distribution: map[rates.Category]rates.DistributionShare{
			rates.CategoryMail:     {Platform: dec("0.1"), Delivery: dec("0.8"), Merchant: dec("0.1")},
			rates.CategoryShopping: {Platform: dec("0.1"), Delivery: dec("0.7"), Merchant: dec("0.2")},
		},
		ValueAdded: map[rates.Category]rates.ValueAdded{
			rates.CategoryMail: {
				InsuranceRate: dec("0.005"),
				SignatureFee:  dec("2"),
				PackagingFee:  dec("1"),
			},
		},
		Calendar: rates.CalendarRates{
			HolidaySourceURL:  "https://example.com/holidays.json",
			HolidayMultiplier: dec("1.5"),
		},
	}
	return cfg
}

func testEngine(distance DistanceProvider, region RegionProvider, cal CalendarProvider) *Engine {
	return NewEngine(testConfig(), distance, region, cal, zap.NewNop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
