package fees

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// defaultShares backstop a missing distribution table: 10% platform,
// 80% delivery agent, 10% merchant. Distribution must always produce a
// usable result.
var defaultShares = rates.DistributionShare{
	Platform: decimal.RequireFromString("0.1"),
	Delivery: decimal.RequireFromString("0.8"),
	Merchant: decimal.RequireFromString("0.1"),
}

// distribute splits a total fee into delivery / platform / merchant
// incomes. Delivery and merchant shares are computed from their configured
// rates; the platform takes the remainder, which keeps the split summing
// exactly to the total and makes an absent merchant's share revert to the
// platform rather than vanish.
func (p *pipeline) distribute(total decimal.Decimal, hasMerchant bool) FeeDistribution {
	share, ok := p.cfg.DistributionShare(p.category)
	if !ok {
		p.logger.Warn("no distribution shares configured, using defaults",
			zap.String("category", string(p.category)))
		share = defaultShares
	}

	deliveryIncome := types.Round2(total.Mul(share.Delivery))
	merchantIncome := decimal.Zero
	if hasMerchant {
		merchantIncome = types.Round2(total.Mul(share.Merchant))
	}
	platformIncome := total.Sub(deliveryIncome).Sub(merchantIncome)
	if platformIncome.IsNegative() {
		p.logger.Warn("distribution shares exceed 100%, clamping platform income to zero",
			zap.String("category", string(p.category)),
			zap.String("total", total.StringFixed(2)))
		platformIncome = decimal.Zero
	}

	return FeeDistribution{
		DeliveryIncome: types.NewMoney(deliveryIncome),
		PlatformIncome: types.NewMoney(platformIncome),
		MerchantIncome: types.NewMoney(merchantIncome),
	}
}
