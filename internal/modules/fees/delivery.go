package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/types"
)

// deliveryFee computes the distance surcharge and applies the date,
// time-of-day and region multipliers. The multiplier order is fixed and
// each step re-rounds, so figures reproduce exactly across runs.
func (p *pipeline) deliveryFee(ctx context.Context, order FeeableOrder, now time.Time) (decimal.Decimal, error) {
	dr, err := p.cfg.DistanceRate(p.category)
	if err != nil {
		return decimal.Zero, err
	}

	meters, err := p.distance.WalkingMeters(ctx, order.PickupPoint(), order.DeliveryPoint())
	if err != nil {
		return decimal.Zero, fmt.Errorf("distance lookup: %w", err)
	}
	km := decimal.NewFromFloat(meters / 1000.0)
	if dr.MaxKm.IsPositive() && km.GreaterThan(dr.MaxKm) {
		return decimal.Zero, fmt.Errorf("distance %s km exceeds category limit %s km",
			km.StringFixed(2), dr.MaxKm.StringFixed(2))
	}

	extra := km.Sub(dr.FreeKm)
	if extra.IsNegative() {
		extra = decimal.Zero
	}
	fee := types.Round2(extra.Mul(dr.PerKm))

	when := now
	if created := order.CreatedAt(); created != nil {
		when = *created
	} else {
		p.logger.Warn("order has no creation time, using current time for rate multipliers",
			zap.String("order_id", string(order.OrderID())))
	}

	fee = types.Round2(fee.Mul(p.calendar.DateRateMultiplier(when, p.category)))
	fee = types.Round2(fee.Mul(p.calendar.TimeRangeMultiplier(when.Hour(), p.category)))

	regionRate, _, err := p.region.Multiplier(ctx, order.PickupPoint(), order.DeliveryPoint())
	if err != nil {
		return decimal.Zero, fmt.Errorf("region lookup: %w", err)
	}
	fee = types.Round2(fee.Mul(regionRate))

	return fee, nil
}
