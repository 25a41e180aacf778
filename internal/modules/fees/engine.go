// README: Fee engine orchestrator with per-category pipelines and safe fallback.
package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// pipeline composes the base, delivery, service and distribution stages
// for one order category.
type pipeline struct {
	category rates.Category
	cfg      *rates.Config
	distance DistanceProvider
	region   RegionProvider
	calendar CalendarProvider
	logger   *zap.Logger
}

// Engine dispatches orders to category pipelines. All state is immutable
// after construction, so concurrent callers need no locking.
type Engine struct {
	cfg       *rates.Config
	pipelines map[rates.Category]*pipeline
	calendar  CalendarProvider
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(cfg *rates.Config, distance DistanceProvider, region RegionProvider, calendar CalendarProvider, logger *zap.Logger) *Engine {
	e := &Engine{
		cfg:       cfg,
		pipelines: make(map[rates.Category]*pipeline, len(rates.Categories())),
		calendar:  calendar,
		logger:    logger,
		now:       time.Now,
	}
	for _, cat := range rates.Categories() {
		e.pipelines[cat] = &pipeline{
			category: cat,
			cfg:      cfg,
			distance: distance,
			region:   region,
			calendar: calendar,
			logger:   logger,
		}
	}
	return e
}

// WithClock replaces the engine clock. Tests use it to pin "now" and
// reproduce exact timeout figures.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CalculateFee prices an order for checkout. A computation failure or an
// invalid result is logged and replaced by the conservative default; a
// pricing anomaly must never block an order. The only error surfaced is a
// category with no registered pipeline, which is a wiring defect.
func (e *Engine) CalculateFee(ctx context.Context, order FeeableOrder) (FeeResult, error) {
	p, ok := e.pipelines[order.OrderCategory()]
	if !ok {
		return FeeResult{}, fmt.Errorf("%w: %s", ErrNoPipeline, order.OrderCategory())
	}

	res, err := p.runGuarded(ctx, order, e.now())
	if err != nil {
		e.logger.Error("fee computation failed, substituting default result",
			zap.String("order_id", string(order.OrderID())),
			zap.String("category", string(order.OrderCategory())),
			zap.Error(err))
		return e.fallbackResult(order), nil
	}
	if !res.TotalFee.IsPositive() {
		e.logger.Error("fee computation produced non-positive total, substituting default result",
			zap.String("order_id", string(order.OrderID())),
			zap.String("total", res.TotalFee.String()))
		return e.fallbackResult(order), nil
	}
	return res, nil
}

// EstimateFee runs the same pipeline for display purposes. Unlike
// CalculateFee it propagates failures, so callers can distinguish "no
// estimate available" from a priced order.
func (e *Engine) EstimateFee(ctx context.Context, order FeeableOrder) (FeeResult, error) {
	p, ok := e.pipelines[order.OrderCategory()]
	if !ok {
		return FeeResult{}, fmt.Errorf("%w: %s", ErrNoPipeline, order.OrderCategory())
	}
	return p.runGuarded(ctx, order, e.now())
}

// ValidateFee re-checks an already-computed result against the pipeline's
// own rules: it belongs to the order, the total is strictly positive, and
// the distribution never hands out more than the total (within a cent of
// rounding tolerance). Fallback results pass by construction.
func (e *Engine) ValidateFee(order FeeableOrder, res FeeResult) bool {
	if res.OrderID != order.OrderID() {
		return false
	}
	if !res.TotalFee.IsPositive() {
		return false
	}
	tolerance := decimal.RequireFromString("0.01")
	distSum := res.Distribution.DeliveryIncome.Amount.
		Add(res.Distribution.PlatformIncome.Amount).
		Add(res.Distribution.MerchantIncome.Amount)
	return distSum.Sub(res.TotalFee.Amount).LessThanOrEqual(tolerance)
}

// runGuarded converts a pipeline panic into an error so the orchestrator's
// fallback covers malformed orders as well as explicit failures.
func (p *pipeline) runGuarded(ctx context.Context, order FeeableOrder, now time.Time) (res FeeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fee pipeline panic: %v", r)
		}
	}()
	return p.run(ctx, order, now)
}

func (p *pipeline) run(ctx context.Context, order FeeableOrder, now time.Time) (FeeResult, error) {
	base := p.baseFee(order)

	delivery, err := p.deliveryFee(ctx, order, now)
	if err != nil {
		return FeeResult{}, err
	}
	service, err := p.serviceFee(order, base)
	if err != nil {
		return FeeResult{}, err
	}

	total := types.Round2(base.Add(delivery).Add(service))
	dist := p.distribute(total, order.HasMerchant())

	return FeeResult{
		OrderID:      order.OrderID(),
		BaseFee:      types.NewMoney(base),
		DeliveryFee:  types.NewMoney(delivery),
		ServiceFee:   types.NewMoney(service),
		TotalFee:     types.NewMoney(total),
		Distribution: dist,
	}, nil
}

// fallbackResult is the conservative default substituted when pricing
// fails: flat component fees, total covering the goods cost, and a fixed
// 8/2/0 split. Operators chase the logged cause; the order proceeds.
func (e *Engine) fallbackResult(order FeeableOrder) FeeResult {
	total := types.Round2(decimal.NewFromInt(10).Add(order.ExpectedPrice()))
	return FeeResult{
		OrderID:     order.OrderID(),
		BaseFee:     types.MoneyFromFloat(10),
		DeliveryFee: types.MoneyFromFloat(8),
		ServiceFee:  types.MoneyFromFloat(2),
		TotalFee:    types.NewMoney(total),
		Distribution: FeeDistribution{
			DeliveryIncome: types.MoneyFromFloat(8),
			PlatformIncome: types.MoneyFromFloat(2),
			MerchantIncome: types.MoneyFromFloat(0),
		},
	}
}
