package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	// ErrRateNotApplicable is returned when a rate is used for currencies it does not convert.
	ErrRateNotApplicable = fmt.Errorf("%w: exchange rate not applicable", apperrors.ErrValidation)
	ErrNegativeRate      = fmt.Errorf("%w: exchange rate must not be negative", apperrors.ErrValidation)
)

// divisionPrecision is the number of digits kept when taking a reciprocal.
const divisionPrecision = 20

// CurrencyPair is an ordered pair of currencies. First is the base: one unit
// of First is worth Rate units of Second.
type CurrencyPair struct {
	First  Currency `json:"first"`
	Second Currency `json:"second"`
}

func NewCurrencyPair(first, second Currency) CurrencyPair {
	return CurrencyPair{First: first, Second: second}
}

func (p CurrencyPair) Invert() CurrencyPair {
	return CurrencyPair{First: p.Second, Second: p.First}
}

// Affects reports whether either side has the given currency code.
func (p CurrencyPair) Affects(code string) bool {
	return p.First.Code == code || p.Second.Code == code
}

// Equal compares direction and codes.
func (p CurrencyPair) Equal(o CurrencyPair) bool {
	return p.First.Code == o.First.Code && p.Second.Code == o.Second.Code
}

// SameAs compares codes in either direction.
func (p CurrencyPair) SameAs(o CurrencyPair) bool {
	return p.Equal(o) || p.Equal(o.Invert())
}

// IsOneToOne reports whether both sides carry the same code.
func (p CurrencyPair) IsOneToOne() bool {
	return p.First.Code == p.Second.Code
}

func (p CurrencyPair) String() string {
	return p.First.Code + "/" + p.Second.Code
}

// ExchangeRate is a timestamped conversion rate for a currency pair.
// A zero rate means the rate is not defined yet.
type ExchangeRate struct {
	ID          string          `json:"id,omitempty"`
	Pair        CurrencyPair    `json:"pair"`
	Rate        decimal.Decimal `json:"rate"`
	PointInTime time.Time       `json:"pointInTime"`
	AuditFields
}

// NewExchangeRate creates an undefined rate for pair.
func NewExchangeRate(pair CurrencyPair) *ExchangeRate {
	return &ExchangeRate{Pair: pair, Rate: decimal.Zero, PointInTime: time.Now().UTC()}
}

// NoneRate is the identity rate for ccy.
func NoneRate(ccy Currency) *ExchangeRate {
	return &ExchangeRate{
		Pair:        CurrencyPair{First: ccy, Second: ccy},
		Rate:        decimal.NewFromInt(1),
		PointInTime: time.Now().UTC(),
	}
}

// SetRate updates the rate and stamps the current time.
func (r *ExchangeRate) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeRate, rate)
	}
	r.Rate = rate
	r.PointInTime = time.Now().UTC()
	return nil
}

func (r *ExchangeRate) IsUndefined() bool {
	return r.Rate.IsZero()
}

// IsNone reports whether r is an identity rate.
func (r *ExchangeRate) IsNone() bool {
	return r.Pair.IsOneToOne() && r.Rate.Equal(decimal.NewFromInt(1))
}

// Invert returns the rate for the opposite direction.
func (r *ExchangeRate) Invert() *ExchangeRate {
	inv := &ExchangeRate{
		ID:          r.ID,
		Pair:        r.Pair.Invert(),
		Rate:        decimal.Zero,
		PointInTime: r.PointInTime,
		AuditFields: r.AuditFields,
	}
	if !r.IsUndefined() {
		inv.Rate = decimal.NewFromInt(1).DivRound(r.Rate, divisionPrecision)
	}
	return inv
}

// Convert converts amount along direction. direction must either be the
// rate's pair or its inverse.
func (r *ExchangeRate) Convert(amount decimal.Decimal, direction CurrencyPair) (decimal.Decimal, error) {
	switch {
	case r.Pair.Equal(direction):
		return amount.Mul(r.Rate), nil
	case r.Pair.Invert().Equal(direction):
		if r.IsUndefined() {
			return decimal.Zero, nil
		}
		return amount.DivRound(r.Rate, divisionPrecision), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: rate %s cannot convert %s", ErrRateNotApplicable, r.Pair, direction)
	}
}

// ConvertMoney converts m into the other currency of the pair.
func (r *ExchangeRate) ConvertMoney(m Money) (Money, error) {
	var target Currency
	switch m.Currency.Code {
	case r.Pair.First.Code:
		target = r.Pair.Second
	case r.Pair.Second.Code:
		target = r.Pair.First
	default:
		return Money{}, fmt.Errorf("%w: rate %s cannot convert %s", ErrRateNotApplicable, r.Pair, m.Currency.Code)
	}
	amt, err := r.Convert(m.Amount, CurrencyPair{First: m.Currency, Second: target})
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amt, Currency: target}, nil
}

func (r *ExchangeRate) String() string {
	return fmt.Sprintf("%s %s @ %s", r.Pair, r.Rate, r.PointInTime.Format(time.RFC3339))
}

// FindRate returns the first rate whose pair matches pair in either direction.
func FindRate(rates []*ExchangeRate, pair CurrencyPair) (*ExchangeRate, bool) {
	for _, r := range rates {
		if r != nil && r.Pair.SameAs(pair) {
			return r, true
		}
	}
	return nil, false
}
