package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies at a point in time.
// One unit of FromCurrencyCode is worth Rate units of ToCurrencyCode.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	EffectiveAt      time.Time       `db:"effective_at"`
	AuditFields
}
