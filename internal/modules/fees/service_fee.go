package fees

import (
	"github.com/shopspring/decimal"

	"campusgo/internal/types"
)

// serviceFee computes the percentage-of-base service fee plus the optional
// value-added fees the order requested. There is no stage default here; a
// failure propagates to the orchestrator's fallback.
func (p *pipeline) serviceFee(order FeeableOrder, baseFee decimal.Decimal) (decimal.Decimal, error) {
	rate, err := p.cfg.Rate(p.category)
	if err != nil {
		return decimal.Zero, err
	}
	fee := types.Round2(baseFee.Mul(rate.ServiceRate))

	va := p.cfg.ValueAddedFor(p.category)
	if order.InsuranceRequested() {
		insurance := types.Round2(va.InsuranceRate.Mul(order.DeclaredValue()))
		fee = types.Round2(fee.Add(insurance))
	}
	if order.SignatureRequested() {
		fee = types.Round2(fee.Add(va.SignatureFee))
	}
	if order.PackagingRequested() {
		fee = types.Round2(fee.Add(va.PackagingFee))
	}
	return fee, nil
}
