package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in a given currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func NewMoney(amount decimal.Decimal, ccy Currency) Money {
	return Money{Amount: amount, Currency: ccy}
}

// Zero returns a zero amount in ccy.
func Zero(ccy Currency) Money {
	return Money{Amount: decimal.Zero, Currency: ccy}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Plus adds o to m. Both must carry the same currency.
func (m Money) Plus(o Money) (Money, error) {
	if !m.Currency.Equal(o.Currency) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Minus subtracts o from m. Both must carry the same currency.
func (m Money) Minus(o Money) (Money, error) {
	if !m.Currency.Equal(o.Currency) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.Currency}, nil
}

func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Round rounds half away from zero to the given number of fractional digits.
func (m Money) Round(places int32) Money {
	return Money{Amount: m.Amount.Round(places), Currency: m.Currency}
}

// In returns the same amount expressed in another currency without conversion.
func (m Money) In(ccy Currency) Money {
	return Money{Amount: m.Amount, Currency: ccy}
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency.Code
}
