package xrpl

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// rippleEpoch is the origin of ledger timestamps.
var rippleEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func fromRippleTime(seconds int64) time.Time {
	return rippleEpoch.Add(time.Duration(seconds) * time.Second)
}

func toRippleTime(t time.Time) int64 {
	return int64(t.Sub(rippleEpoch) / time.Second)
}

const currencyCodeHexLen = 40

// Amount is a ledger amount on the wire: a string of drops for XRP or an
// object for issued currencies.
type Amount struct {
	Drops  string
	Issued *IssuedAmount
}

// IssuedAmount is the object form of an issued currency amount.
type IssuedAmount struct {
	Currency string `json:"currency" validate:"required"`
	Issuer   string `json:"issuer" validate:"required,xrpl_address"`
	Value    string `json:"value" validate:"required"`
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Issued != nil {
		return json.Marshal(a.Issued)
	}
	return json.Marshal(a.Drops)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		a.Issued = nil
		return json.Unmarshal(data, &a.Drops)
	}
	var issued IssuedAmount
	if err := json.Unmarshal(data, &issued); err != nil {
		return err
	}
	a.Drops = ""
	a.Issued = &issued
	return nil
}

func (a Amount) IsZero() bool {
	return a.Drops == "" && a.Issued == nil
}

// toAmount converts m into its wire form on l.
func toAmount(l domain.Ledger, m domain.Money) (Amount, error) {
	if m.Amount.IsNegative() {
		return Amount{}, fmt.Errorf("%w: negative amount %s", apperrors.ErrValidation, m)
	}
	if l.IsNative(m.Currency) {
		drops := m.Amount.Shift(l.NativeDecimals)
		if !drops.Equal(drops.Truncate(0)) {
			return Amount{}, fmt.Errorf("%w: %s has more than %d decimals", apperrors.ErrValidation, m, l.NativeDecimals)
		}
		return Amount{Drops: drops.String()}, nil
	}
	if !m.Currency.IsIssued() {
		return Amount{}, fmt.Errorf("%w: %s is neither native nor issued", apperrors.ErrValidation, m.Currency.Code)
	}
	return Amount{Issued: &IssuedAmount{
		Currency: encodeCurrencyCode(m.Currency.Code),
		Issuer:   m.Currency.Issuer,
		Value:    l.CapTokenPrecision(m.Amount).String(),
	}}, nil
}

// toMoney converts a wire amount received from l.
func (a Amount) toMoney(l domain.Ledger) (domain.Money, error) {
	if a.Issued != nil {
		v, err := decimal.NewFromString(a.Issued.Value)
		if err != nil {
			return domain.Money{}, fmt.Errorf("invalid issued amount %q: %w", a.Issued.Value, err)
		}
		ccy := domain.NewIssuedCurrency(decodeCurrencyCode(a.Issued.Currency), a.Issued.Issuer)
		return domain.NewMoney(v, ccy), nil
	}
	drops, err := decimal.NewFromString(a.Drops)
	if err != nil {
		return domain.Money{}, fmt.Errorf("invalid drops amount %q: %w", a.Drops, err)
	}
	return domain.NewMoney(drops.Shift(-l.NativeDecimals), l.Native()), nil
}

// encodeCurrencyCode returns the 40 hex digit form for codes that do not fit
// the three letter standard form.
func encodeCurrencyCode(code string) string {
	if len(code) <= 3 || isHexCode(code) {
		return code
	}
	raw := make([]byte, currencyCodeHexLen/2)
	copy(raw, code)
	return strings.ToUpper(hex.EncodeToString(raw))
}

// decodeCurrencyCode turns a 40 hex digit code holding printable ASCII back
// into text. Other codes are returned unchanged.
func decodeCurrencyCode(code string) string {
	if !isHexCode(code) {
		return code
	}
	raw, err := hex.DecodeString(code)
	if err != nil {
		return code
	}
	text := string(bytes.TrimRight(raw, "\x00"))
	if text == "" {
		return code
	}
	for _, r := range text {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return code
		}
	}
	return text
}

func isHexCode(code string) bool {
	if len(code) != currencyCodeHexLen {
		return false
	}
	_, err := hex.DecodeString(code)
	return err == nil
}
