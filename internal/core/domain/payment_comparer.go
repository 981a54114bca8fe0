package domain

import "github.com/shopspring/decimal"

var (
	userAmountTolerance   = decimal.RequireFromString("0.005")
	ledgerAmountTolerance = decimal.RequireFromString("0.02")
)

// PaymentComparer decides whether two payments most likely describe the same transfer,
// e.g. an imported instruction and a transaction found on the ledger.
type PaymentComparer struct {
	CompareSender bool
}

func NewPaymentComparer() PaymentComparer {
	return PaymentComparer{CompareSender: true}
}

func (c PaymentComparer) Similar(first, second *Payment) bool {
	if first == nil || second == nil {
		return first == nil && second == nil
	}
	if c.CompareSender && !first.SenderWallet().SameAddress(second.SenderWallet()) {
		return false
	}
	if !first.ReceiverWallet().SameAddress(second.ReceiverWallet()) {
		return false
	}
	if first.UserCurrency().Code != second.UserCurrency().Code {
		return false
	}

	// A ledger transaction without exchange rate has no user amount.
	if first.amountKnown && second.amountKnown {
		diff := first.amount.Sub(second.amount).Abs()
		return diff.LessThanOrEqual(first.amount.Mul(userAmountTolerance).Abs())
	}

	a, b := first.LedgerAmount(), second.LedgerAmount()
	diff, err := a.Minus(b)
	if err != nil {
		return false
	}
	return diff.Amount.Abs().LessThanOrEqual(a.Amount.Mul(ledgerAmountTolerance).Abs())
}
