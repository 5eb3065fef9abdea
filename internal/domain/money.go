package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// GHS is the storefront's settlement currency.
var GHS = currency.MustParseISO("GHS")

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func ZeroMoney(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

// Mul returns the amount multiplied by a quantity in the same currency.
func (m Money) Mul(qty int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

// Add sums two amounts. A zero-value currency on either side adopts the other's.
func (m Money) Add(o Money) (Money, error) {
	unit := m.Currency
	switch {
	case unit == currency.Unit{}:
		unit = o.Currency
	case o.Currency == currency.Unit{}, o.Currency == unit:
	default:
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, o.Currency)
	}

	return Money{Amount: m.Amount.Add(o.Amount), Currency: unit}, nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
