// README: Fee engine contracts and result value objects.
package fees

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// FeeableOrder is the read-only slice of an order the fee engine needs.
// Every order variant (mail, shopping, purchase) satisfies it; the engine
// never mutates an order.
type FeeableOrder interface {
	OrderID() types.ID
	OrderCategory() rates.Category
	CreatedAt() *time.Time
	PickupPoint() types.Point
	DeliveryPoint() types.Point
	WeightKg() float64
	LargeItem() bool
	ExpectedPrice() decimal.Decimal
	HasMerchant() bool
	MerchantTier() string
	ExpectedDeliveryAt() *time.Time
	DeliveredAt() *time.Time
	InsuranceRequested() bool
	DeclaredValue() decimal.Decimal
	SignatureRequested() bool
	PackagingRequested() bool
	AgentIncome() decimal.Decimal
	StandardDelivery() bool
}

// DistanceProvider resolves a travel distance in metres. Implementations
// carry their own caching and fallback chain.
type DistanceProvider interface {
	WalkingMeters(ctx context.Context, from, to types.Point) (float64, error)
}

// RegionProvider maps a pickup/delivery pair to a final rate multiplier
// and whether the pair crosses a region boundary.
type RegionProvider interface {
	Multiplier(ctx context.Context, pickup, delivery types.Point) (decimal.Decimal, bool, error)
}

// CalendarProvider answers holiday and time-of-day rate questions.
type CalendarProvider interface {
	IsHoliday(t time.Time) bool
	DateRateMultiplier(t time.Time, cat rates.Category) decimal.Decimal
	TimeRangeMultiplier(hour int, cat rates.Category) decimal.Decimal
}

// FeeDistribution is the three-way split of a total fee. The shares always
// sum to the total: the platform takes the remainder after the delivery and
// merchant shares, so an absent merchant's share reverts to the platform.
type FeeDistribution struct {
	DeliveryIncome types.Money
	PlatformIncome types.Money
	MerchantIncome types.Money
}

// FeeResult is created once per computation and owned by the caller.
type FeeResult struct {
	OrderID      types.ID
	BaseFee      types.Money
	DeliveryFee  types.Money
	ServiceFee   types.Money
	TotalFee     types.Money
	Distribution FeeDistribution
}

// ErrNoPipeline marks a category with no registered fee pipeline. Unlike a
// computation failure it is a wiring defect and is surfaced, not defaulted.
var ErrNoPipeline = errors.New("no fee pipeline registered for category")

var ErrUnknownTimeoutKind = errors.New("unknown timeout kind")
