package models

import "github.com/shopspring/decimal"

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string          `db:"currency_code"` // Primary Key together with Issuer (e.g., "USD", "")
	Issuer       string          `db:"issuer"`        // Empty for fiat and native currencies
	Symbol       string          `db:"symbol"`        // e.g., "$"
	Name         string          `db:"name"`          // e.g., "US Dollar"
	Precision    int             `db:"precision"`
	TransferFee  decimal.Decimal `db:"transfer_fee"` // Fraction charged by the issuer, 0 if none
	AuditFields
}
