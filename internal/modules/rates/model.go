// README: Immutable rate tables driving every fee computation.
package rates

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category selects which rate table and fee pipeline apply to an order.
type Category string

const (
	CategoryMail     Category = "MAIL"
	CategoryShopping Category = "SHOPPING"
	CategoryPurchase Category = "PURCHASE"
)

// Categories lists every order category the platform bills for.
func Categories() []Category {
	return []Category{CategoryMail, CategoryShopping, CategoryPurchase}
}

// TimeoutKind identifies which deadline an order missed.
type TimeoutKind string

const (
	TimeoutPickup       TimeoutKind = "PICKUP"
	TimeoutDelivery     TimeoutKind = "DELIVERY"
	TimeoutConfirmation TimeoutKind = "CONFIRMATION"
)

func TimeoutKinds() []TimeoutKind {
	return []TimeoutKind{TimeoutPickup, TimeoutDelivery, TimeoutConfirmation}
}

// Rate holds the per-category base pricing knobs.
type Rate struct {
	BaseRate            decimal.Decimal
	ServiceRate         decimal.Decimal
	LargeItemMultiplier decimal.Decimal
	WeightMultiplier    decimal.Decimal
}

// DistanceRate holds the per-category distance pricing knobs, in km.
type DistanceRate struct {
	FreeKm decimal.Decimal
	PerKm  decimal.Decimal
	MaxKm  decimal.Decimal
}

// TimeoutTable holds the timeout penalty configuration shared by all
// categories plus the per-(category, kind) base fees and deadlines.
type TimeoutTable struct {
	BaseFees            map[Category]map[TimeoutKind]decimal.Decimal
	DeadlinesMin        map[Category]map[TimeoutKind]int
	LargeItemMultiplier decimal.Decimal
	WeightMultiplier    decimal.Decimal
	HolidayMultiplier   decimal.Decimal
	MaxEscalationHours  int
	HourlyRate          decimal.Decimal
}

// DistributionShare is the three-way split of a total fee.
type DistributionShare struct {
	Platform decimal.Decimal
	Delivery decimal.Decimal
	Merchant decimal.Decimal
}

// ValueAdded holds per-category optional-service pricing.
type ValueAdded struct {
	InsuranceRate decimal.Decimal
	SignatureFee  decimal.Decimal
	PackagingFee  decimal.Decimal
}

// TimeBand maps an hour-of-day range [From, To) to a rate multiplier.
type TimeBand struct {
	FromHour   int
	ToHour     int
	Multiplier decimal.Decimal
}

// CalendarRates configures the date and time-of-day adjustments.
type CalendarRates struct {
	HolidaySourceURL  string
	HolidayMultiplier decimal.Decimal
	// DateMultipliers keys are "MM-DD" so they recur yearly.
	DateMultipliers map[Category]map[string]decimal.Decimal
	TimeBands       map[Category][]TimeBand
}

// Config is the full rate configuration. It is built once at startup,
// validated, and read-only afterwards; concurrent readers need no locking.
type Config struct {
	Rates        map[Category]Rate
	Distance     map[Category]DistanceRate
	Timeout      TimeoutTable
	Distribution map[Category]DistributionShare
	ValueAdded   map[Category]ValueAdded
	Calendar     CalendarRates
}

var ErrUnknownCategory = errors.New("unknown order category")

// Validate checks the invariants every fee stage relies on. A failure here
// must abort startup; nothing else in the engine is allowed to.
func (c *Config) Validate() error {
	for _, cat := range Categories() {
		r, ok := c.Rates[cat]
		if !ok || !r.BaseRate.IsPositive() {
			return fmt.Errorf("rates: category %s has no positive base rate", cat)
		}
		d, ok := c.Distance[cat]
		if !ok {
			return fmt.Errorf("rates: category %s has no distance table", cat)
		}
		if d.FreeKm.IsNegative() {
			return fmt.Errorf("rates: category %s has negative free distance", cat)
		}
		if _, ok := c.Timeout.BaseFees[cat]; !ok {
			return fmt.Errorf("rates: category %s has no timeout fees", cat)
		}
	}
	if !c.Timeout.HolidayMultiplier.IsPositive() {
		return errors.New("rates: timeout holiday multiplier must be positive")
	}
	if !c.Calendar.HolidayMultiplier.IsPositive() {
		return errors.New("rates: calendar holiday multiplier must be positive")
	}
	if c.Calendar.HolidaySourceURL == "" {
		return errors.New("rates: holiday source URL is empty")
	}
	return nil
}

func (c *Config) Rate(cat Category) (Rate, error) {
	r, ok := c.Rates[cat]
	if !ok {
		return Rate{}, fmt.Errorf("rate for %s: %w", cat, ErrUnknownCategory)
	}
	return r, nil
}

func (c *Config) DistanceRate(cat Category) (DistanceRate, error) {
	d, ok := c.Distance[cat]
	if !ok {
		return DistanceRate{}, fmt.Errorf("distance rate for %s: %w", cat, ErrUnknownCategory)
	}
	return d, nil
}

// MaxDeliveryKm returns the hard distance ceiling for a category. Zero means
// no ceiling is configured.
func (c *Config) MaxDeliveryKm(cat Category) decimal.Decimal {
	return c.Distance[cat].MaxKm
}

func (c *Config) TimeoutBaseFee(cat Category, kind TimeoutKind) (decimal.Decimal, bool) {
	fees, ok := c.Timeout.BaseFees[cat]
	if !ok {
		return decimal.Zero, false
	}
	fee, ok := fees[kind]
	return fee, ok
}

func (c *Config) TimeoutDeadlineMin(cat Category, kind TimeoutKind) (int, bool) {
	mins, ok := c.Timeout.DeadlinesMin[cat]
	if !ok {
		return 0, false
	}
	m, ok := mins[kind]
	return m, ok
}

func (c *Config) DistributionShare(cat Category) (DistributionShare, bool) {
	s, ok := c.Distribution[cat]
	return s, ok
}

func (c *Config) ValueAddedFor(cat Category) ValueAdded {
	return c.ValueAdded[cat]
}
