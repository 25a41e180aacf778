// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

// DefaultCurrency is the only settlement currency the platform supports.
const DefaultCurrency = "TWD"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney rounds to 2 decimal places, half away from zero. Every monetary
// figure in the system passes through here or Round2 before it is stored,
// compared or returned.
func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: Round2(amount), Currency: DefaultCurrency}
}

func MoneyFromFloat(v float64) Money {
	return NewMoney(decimal.NewFromFloat(v))
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.Amount.Add(other.Amount))
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// Round2 rounds a raw decimal to 2 places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
