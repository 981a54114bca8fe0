package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(v string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(v), domain.NewCurrency("USD"))
}

func xrp(v string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(v), domain.XRPL.Native())
}

func TestMoney_Arithmetic(t *testing.T) {
	sum, err := usd("10.5").Plus(usd("2.25"))
	require.NoError(t, err)
	assert.Equal(t, "12.75", sum.Amount.String())

	diff, err := usd("10").Minus(usd("2.5"))
	require.NoError(t, err)
	assert.Equal(t, "7.5", diff.Amount.String())

	prod := usd("10").Multiply(decimal.RequireFromString("0.002"))
	assert.Equal(t, "0.02", prod.Amount.String())
	assert.Equal(t, "USD", prod.Currency.Code)
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Money
	}{
		{name: "different code", a: usd("1"), b: xrp("1")},
		{
			name: "same code different issuer",
			a:    domain.NewMoney(decimal.NewFromInt(1), domain.NewIssuedCurrency("USD", "rIssuerA")),
			b:    domain.NewMoney(decimal.NewFromInt(1), domain.NewIssuedCurrency("USD", "rIssuerB")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.a.Plus(tt.b)
			assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			_, err = tt.a.Minus(tt.b)
			assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
		})
	}
}

func TestMoney_Round(t *testing.T) {
	assert.Equal(t, "1.234568", xrp("1.2345678").Round(6).Amount.String())
	assert.Equal(t, "1.23", usd("1.225").Round(2).Amount.String())
	assert.True(t, domain.Zero(domain.NewCurrency("EUR")).IsZero())
	assert.Equal(t, "12.5 USD", usd("12.50").String())
}

func TestCurrency_Equality(t *testing.T) {
	a := domain.NewIssuedCurrency("USD", "rIssuerA")
	b := domain.NewIssuedCurrency("USD", "rIssuerB")
	plain := domain.NewCurrency(" USD ")

	assert.False(t, a.Equal(b))
	assert.True(t, a.SameCode(b))
	assert.True(t, a.WithoutIssuer().Equal(plain))
	assert.True(t, a.IsIssued())
	assert.False(t, plain.IsIssued())
	assert.Equal(t, "USD.rIssuerA", a.String())
	assert.Equal(t, "USD", plain.String())
}

func TestCurrency_TransferFeeAmount(t *testing.T) {
	ccy := domain.NewIssuedCurrency("EUR", "rIssuer").WithTransferFee(decimal.RequireFromString("0.002"))
	fee := ccy.TransferFeeAmount(domain.NewMoney(decimal.NewFromInt(100), ccy))
	assert.Equal(t, "0.2", fee.Amount.String())

	noFee := domain.NewIssuedCurrency("EUR", "rIssuer")
	assert.True(t, noFee.TransferFeeAmount(domain.NewMoney(decimal.NewFromInt(100), noFee)).IsZero())
}

func TestCurrency_JSONAlwaysCarriesTransferFee(t *testing.T) {
	raw, err := json.Marshal(domain.NewCurrency("USD"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"USD","transferFee":"0"}`, string(raw))

	raw, err = json.Marshal(domain.NewIssuedCurrency("EUR", "rIssuer").WithTransferFee(decimal.RequireFromString("0.002")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"EUR","issuer":"rIssuer","transferFee":"0.002"}`, string(raw))
}

func TestLedger_Precision(t *testing.T) {
	l := domain.XRPL

	assert.True(t, l.IsNative(domain.NewCurrency("XRP")))
	assert.False(t, l.IsNative(domain.NewIssuedCurrency("XRP", "rFake")))
	assert.Equal(t, "1.000001", l.RoundNative(xrp("1.0000005")).Amount.String())
	assert.Equal(t, "1.0000005", l.RoundNative(usd("1.0000005")).Amount.String())

	capped := l.CapTokenPrecision(decimal.RequireFromString("100.1234567890123456"))
	assert.Equal(t, "100.123456789012346", capped.String())

	short := decimal.RequireFromString("0.5")
	assert.Equal(t, "0.5", l.CapTokenPrecision(short).String())
}
