package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerID names a ledger family.
type LedgerID string

const (
	LedgerXRPL LedgerID = "xrpl"
)

// Ledger describes the currency and precision rules of a ledger family.
type Ledger struct {
	ID             LedgerID `json:"id"`
	NativeCurrency string   `json:"nativeCurrency"`
	NativeDecimals int32    `json:"nativeDecimals"`
	TokenDecimals  int32    `json:"tokenDecimals"`
}

// XRPL is the descriptor of the XRP ledger.
var XRPL = Ledger{
	ID:             LedgerXRPL,
	NativeCurrency: "XRP",
	NativeDecimals: 6,
	TokenDecimals:  15,
}

// Native returns the ledger's native currency.
func (l Ledger) Native() Currency {
	return Currency{Code: l.NativeCurrency}
}

// IsNative reports whether ccy is the ledger's native currency.
func (l Ledger) IsNative(ccy Currency) bool {
	return ccy.Code == l.NativeCurrency && ccy.Issuer == ""
}

// RoundNative rounds m to native precision if m is in the native currency.
func (l Ledger) RoundNative(m Money) Money {
	if m.Currency.Code != l.NativeCurrency {
		return m
	}
	return m.Round(l.NativeDecimals)
}

// CapTokenPrecision limits v to the number of fractional digits issued
// currency amounts may carry on the ledger.
func (l Ledger) CapTokenPrecision(v decimal.Decimal) decimal.Decimal {
	if -v.Exponent() <= l.TokenDecimals {
		return v
	}
	return v.Round(l.TokenDecimals)
}

// LedgerAtTime maps a point in time to the ledger closed at or shortly after it.
type LedgerAtTime struct {
	PointInTime time.Time `json:"pointInTime"`
	Index       uint32    `json:"index"`
}

// LedgerRange is an inclusive range of ledger indices.
type LedgerRange struct {
	Start LedgerAtTime `json:"start"`
	End   LedgerAtTime `json:"end"`
}

// Period is a closed time interval.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// LedgerHeader is the subset of a ledger header the bridge needs.
type LedgerHeader struct {
	Index     uint32    `json:"index"`
	CloseTime time.Time `json:"closeTime"`
}
