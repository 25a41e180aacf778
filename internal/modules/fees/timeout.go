package fees

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// agentIncomeCap limits a standard-delivery timeout penalty to 80% of what
// the agent was to be paid for the order.
var agentIncomeCap = decimal.RequireFromString("0.8")

// CalculateTimeoutFee computes the penalty for a missed deadline as of the
// engine clock. Repeated calls at later instants yield non-decreasing fees
// until the escalation cap; that time dependence is the point, not a bug.
func (e *Engine) CalculateTimeoutFee(order FeeableOrder, kind rates.TimeoutKind) (types.Money, error) {
	return e.timeoutFeeAt(order, kind, e.now())
}

// EstimateTimeoutFee prices a hypothetical timeout for upfront display:
// base fee and item multipliers only, no time-dependent escalation and no
// income cap.
func (e *Engine) EstimateTimeoutFee(order FeeableOrder, kind rates.TimeoutKind) (types.Money, error) {
	fee, err := e.timeoutBase(order, kind)
	if err != nil {
		return types.Money{}, err
	}
	return types.NewMoney(fee), nil
}

// TimeoutMinutes returns the configured minutes until the given deadline
// kind for the order's category. The timeout-detection scheduler consumes
// this; the engine itself never watches the clock.
func (e *Engine) TimeoutMinutes(order FeeableOrder, kind rates.TimeoutKind) (int, error) {
	mins, ok := e.cfg.TimeoutDeadlineMin(order.OrderCategory(), kind)
	if !ok {
		return 0, fmt.Errorf("no deadline for %s/%s: %w", order.OrderCategory(), kind, ErrUnknownTimeoutKind)
	}
	return mins, nil
}

func (e *Engine) timeoutFeeAt(order FeeableOrder, kind rates.TimeoutKind, now time.Time) (types.Money, error) {
	fee, err := e.timeoutBase(order, kind)
	if err != nil {
		return types.Money{}, err
	}

	// Escalation compounds hourly from the kind's start time. An order
	// missing that timestamp pays the unescalated fee instead of failing.
	if start := timeoutStart(order, kind); start != nil {
		elapsed := int(now.Sub(*start).Hours())
		if elapsed < 0 {
			elapsed = 0
		}
		if maxHours := e.cfg.Timeout.MaxEscalationHours; elapsed > maxHours {
			elapsed = maxHours
		}
		factor := decimal.NewFromInt(1).Add(e.cfg.Timeout.HourlyRate.Mul(decimal.NewFromInt(int64(elapsed))))
		fee = types.Round2(fee.Mul(factor))
	}

	if created := order.CreatedAt(); created != nil {
		if e.calendar.IsHoliday(*created) {
			fee = types.Round2(fee.Mul(e.cfg.Timeout.HolidayMultiplier))
		}
		// Time-range discounts are not expressed on penalties; only
		// surcharges above 1.0 apply here.
		if m := e.calendar.TimeRangeMultiplier(created.Hour(), order.OrderCategory()); m.GreaterThan(decimal.NewFromInt(1)) {
			fee = types.Round2(fee.Mul(m))
		}
	}

	if order.StandardDelivery() {
		limit := types.Round2(order.AgentIncome().Mul(agentIncomeCap))
		if fee.GreaterThan(limit) {
			fee = limit
		}
	}
	return types.NewMoney(fee), nil
}

// timeoutBase is steps 1 and 2 of the penalty: configured base fee for the
// (category, kind) pair plus item-characteristic multipliers.
func (e *Engine) timeoutBase(order FeeableOrder, kind rates.TimeoutKind) (decimal.Decimal, error) {
	base, ok := e.cfg.TimeoutBaseFee(order.OrderCategory(), kind)
	if !ok {
		return decimal.Zero, fmt.Errorf("no timeout fee for %s/%s: %w", order.OrderCategory(), kind, ErrUnknownTimeoutKind)
	}
	fee := types.Round2(base)

	if order.LargeItem() && e.cfg.Timeout.LargeItemMultiplier.IsPositive() {
		fee = types.Round2(fee.Mul(e.cfg.Timeout.LargeItemMultiplier))
	}
	if weight := order.WeightKg(); weight > 1.0 {
		over := decimal.NewFromFloat(weight - 1.0)
		factor := decimal.NewFromInt(1).Add(e.cfg.Timeout.WeightMultiplier.Mul(over))
		fee = types.Round2(fee.Mul(factor))
	}
	return fee, nil
}

// timeoutStart selects the escalation clock per kind: pickup counts from
// order creation, delivery from the promised delivery time, confirmation
// from the actual delivery.
func timeoutStart(order FeeableOrder, kind rates.TimeoutKind) *time.Time {
	switch kind {
	case rates.TimeoutPickup:
		return order.CreatedAt()
	case rates.TimeoutDelivery:
		return order.ExpectedDeliveryAt()
	case rates.TimeoutConfirmation:
		return order.DeliveredAt()
	default:
		return nil
	}
}
