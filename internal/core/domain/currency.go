package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned by Money arithmetic on different currencies.
var ErrCurrencyMismatch = fmt.Errorf("%w: currency mismatch", apperrors.ErrValidation)

// Currency identifies a unit of value. Fiat and ledger-native currencies have
// no issuer; issued currencies (tokens) are identified by code and issuer.
type Currency struct {
	Code        string          `json:"code"`
	Issuer      string          `json:"issuer,omitempty"` // Ledger address of the issuer
	TransferFee decimal.Decimal `json:"transferFee"`      // Fraction charged by the issuer, e.g. 0.002
}

// NewCurrency creates a currency without issuer.
func NewCurrency(code string) Currency {
	return Currency{Code: strings.TrimSpace(code)}
}

// NewIssuedCurrency creates a currency issued by the given ledger address.
func NewIssuedCurrency(code, issuer string) Currency {
	return Currency{Code: strings.TrimSpace(code), Issuer: strings.TrimSpace(issuer)}
}

// WithTransferFee returns a copy carrying the issuer's transfer fee.
func (c Currency) WithTransferFee(fee decimal.Decimal) Currency {
	c.TransferFee = fee
	return c
}

// IsIssued reports whether the currency is an issued currency.
func (c Currency) IsIssued() bool {
	return c.Issuer != ""
}

// Equal reports whether code and issuer match.
func (c Currency) Equal(o Currency) bool {
	return c.Code == o.Code && c.Issuer == o.Issuer
}

// SameCode reports whether the codes match, ignoring the issuer.
func (c Currency) SameCode(o Currency) bool {
	return c.Code == o.Code
}

// WithoutIssuer strips issuer and transfer fee.
func (c Currency) WithoutIssuer() Currency {
	return Currency{Code: c.Code}
}

// IsZero reports whether the currency is unset.
func (c Currency) IsZero() bool {
	return c.Code == ""
}

// TransferFeeAmount is the fee the issuer charges on a transfer of amt.
func (c Currency) TransferFeeAmount(amt Money) Money {
	if c.TransferFee.IsZero() {
		return Zero(amt.Currency)
	}
	return amt.Multiply(c.TransferFee)
}

func (c Currency) String() string {
	if c.Issuer == "" {
		return c.Code
	}
	return c.Code + "." + c.Issuer
}

// CurrencyDefinition is a currency known to the system, as stored in the catalog.
type CurrencyDefinition struct {
	CurrencyCode string          `json:"currencyCode"` // e.g. "USD", "XRP"
	Issuer       string          `json:"issuer"`       // Empty for fiat and native currencies
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Precision    int             `json:"precision"`
	TransferFee  decimal.Decimal `json:"transferFee"`
	AuditFields
}

// Currency converts the definition into the value type used in computations.
func (d CurrencyDefinition) Currency() Currency {
	return Currency{Code: d.CurrencyCode, Issuer: d.Issuer, TransferFee: d.TransferFee}
}
