package fees

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/types"
)

// defaultBaseFee backstops the base stage: a pricing anomaly must never
// block checkout, so a failed base computation prices at a flat 10.
var defaultBaseFee = decimal.NewFromInt(10)

var halfKg = decimal.RequireFromString("0.5")

// baseFee computes the weight-tiered starting price. It cannot fail: any
// problem is logged and the stage default is returned.
func (p *pipeline) baseFee(order FeeableOrder) decimal.Decimal {
	fee, err := p.computeBaseFee(order)
	if err != nil {
		p.logger.Warn("base fee computation failed, using default",
			zap.String("order_id", string(order.OrderID())),
			zap.String("category", string(p.category)),
			zap.Error(err))
		return defaultBaseFee
	}
	return fee
}

func (p *pipeline) computeBaseFee(order FeeableOrder) (decimal.Decimal, error) {
	weight := order.WeightKg()
	if weight <= 0 {
		return decimal.Zero, errors.New("order has no positive weight")
	}
	rate, err := p.cfg.Rate(p.category)
	if err != nil {
		return decimal.Zero, err
	}

	// One tier per started 0.5 kg.
	tiers := decimal.NewFromFloat(weight).Div(halfKg).Ceil()
	fee := types.Round2(tiers.Mul(rate.BaseRate))

	if order.LargeItem() && rate.LargeItemMultiplier.IsPositive() {
		fee = types.Round2(fee.Mul(rate.LargeItemMultiplier))
	}
	if weight > 1.0 {
		over := decimal.NewFromFloat(weight - 1.0)
		factor := decimal.NewFromInt(1).Add(rate.WeightMultiplier.Mul(over))
		fee = types.Round2(fee.Mul(factor))
	}
	return fee, nil
}
