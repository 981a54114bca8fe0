package domain

import (
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountBasis tells which side of a payment is authoritative.
type AmountBasis int

const (
	// BasisLedgerDefined derives the user amount from the ledger amount.
	BasisLedgerDefined AmountBasis = iota
	// BasisUserDefined derives the ledger amount from the user amount.
	BasisUserDefined
)

func (b AmountBasis) String() string {
	if b == BasisUserDefined {
		return "USER_DEFINED"
	}
	return "LEDGER_DEFINED"
}

// Origin tells where a payment came from.
type Origin string

const (
	OriginManual   Origin = "MANUAL"
	OriginImported Origin = "IMPORTED"
	OriginLedger   Origin = "LEDGER"
)

func (o Origin) IsDeletable() bool {
	return o == OriginManual
}

func (o Origin) IsEditable() bool {
	return o == OriginManual || o == OriginImported
}

// Payment is the application-side view of exactly one ledger transaction. It
// carries the amount as the user sees it (often fiat) and keeps it consistent
// with the ledger amount through an optional exchange rate.
type Payment struct {
	tx *Transaction

	EndToEndID      string
	SenderAccount   BankAccount
	ReceiverAccount BankAccount
	SenderAddress   *Address
	ReceiverAddress *Address
	Origin          Origin

	amount      decimal.Decimal
	ccy         Currency
	amountKnown bool
	basis       AmountBasis
	rate        *ExchangeRate
}

// NewPayment wraps tx. The user amount starts out unknown.
func NewPayment(tx *Transaction) (*Payment, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: payment requires a transaction", apperrors.ErrValidation)
	}
	return &Payment{tx: tx, Origin: OriginManual, basis: BasisLedgerDefined}, nil
}

func (p *Payment) Transaction() *Transaction { return p.tx }
func (p *Payment) Ledger() Ledger            { return p.tx.Ledger }
func (p *Payment) Basis() AmountBasis        { return p.basis }
func (p *Payment) ExchangeRate() *ExchangeRate {
	return p.rate
}

// Amount returns the user-side amount. ok is false while the amount is unknown.
func (p *Payment) Amount() (m Money, ok bool) {
	return Money{Amount: p.amount, Currency: p.ccy}, p.amountKnown
}

// LedgerAmount returns the amount placed on the ledger.
func (p *Payment) LedgerAmount() Money {
	return p.tx.Amount
}

func (p *Payment) UserCurrency() Currency {
	return p.ccy
}

func (p *Payment) SetUserCurrency(ccy Currency) {
	p.ccy = ccy
}

func (p *Payment) IsAmountUnknown() bool {
	return !p.amountKnown
}

func (p *Payment) IsCurrencyUnknown() bool {
	return p.ccy.IsZero()
}

func (p *Payment) SetAmountUnknown() {
	p.amount = decimal.Zero
	p.amountKnown = false
}

// SetAmount sets the user amount and makes it authoritative. Amounts in the
// ledger's native currency are rounded to native precision.
func (p *Payment) SetAmount(m Money) error {
	if p.isLedgerCurrency(m.Currency) {
		m = p.tx.Ledger.RoundNative(m)
	}
	p.amount = m.Amount
	p.ccy = m.Currency
	p.amountKnown = !m.IsZero()
	if p.amountKnown {
		p.basis = BasisUserDefined
	}
	return p.refreshTransactionAmount()
}

// SetLedgerAmount sets the ledger amount and makes it authoritative.
func (p *Payment) SetLedgerAmount(m Money) error {
	p.tx.Amount = m
	p.basis = BasisLedgerDefined
	return p.refreshAmount()
}

// SetExchangeRate attaches rate, or detaches the current one if rate is nil,
// and recomputes the dependent side.
func (p *Payment) SetExchangeRate(rate *ExchangeRate) error {
	if err := p.checkRate(rate); err != nil {
		return err
	}
	p.rate = rate
	return p.RefreshAmounts()
}

func (p *Payment) checkRate(rate *ExchangeRate) error {
	if rate == nil {
		return nil
	}
	ledgerCode := p.tx.Amount.Currency.Code
	if !rate.Pair.Affects(ledgerCode) {
		return fmt.Errorf("%w: rate %s must affect %s", ErrRateNotApplicable, rate.Pair, ledgerCode)
	}
	bothKnown := p.amountKnown && !p.IsCurrencyUnknown()
	if bothKnown && !rate.Pair.Affects(p.ccy.Code) {
		return fmt.Errorf("%w: rate %s must affect %s and %s", ErrRateNotApplicable, rate.Pair, p.ccy.Code, ledgerCode)
	}
	return nil
}

// RefreshAmounts recomputes the side that is not authoritative.
func (p *Payment) RefreshAmounts() error {
	switch p.basis {
	case BasisUserDefined:
		return p.refreshTransactionAmount()
	default:
		return p.refreshAmount()
	}
}

func (p *Payment) refreshTransactionAmount() error {
	ledger := p.tx.Ledger

	if p.ccy.IsIssued() {
		p.rate = nil
		p.tx.Amount = Money{Amount: ledger.CapTokenPrecision(p.amount), Currency: p.ccy}
		return nil
	}

	if p.rate == nil {
		if p.ccy.Equal(p.tx.Amount.Currency) {
			p.tx.Amount = Money{Amount: p.amount, Currency: p.tx.Amount.Currency}
		} else {
			p.tx.Amount = Zero(ledger.Native())
		}
		return nil
	}

	native := ledger.Native()
	if p.ccy.SameCode(native) {
		p.tx.Amount = ledger.RoundNative(Money{Amount: p.amount, Currency: native})
		return nil
	}
	amt, err := p.rate.Convert(p.amount, CurrencyPair{First: p.ccy, Second: native})
	if err != nil {
		return err
	}
	p.tx.Amount = ledger.RoundNative(Money{Amount: amt, Currency: native})
	return nil
}

func (p *Payment) refreshAmount() error {
	if p.rate == nil {
		p.SetAmountUnknown()
		return nil
	}

	// Amounts read verbatim from a source document stay untouched.
	if p.amountKnown && p.rate.IsNone() {
		return nil
	}

	ledgerCcy := p.tx.Amount.Currency
	target := p.rate.Pair.Second
	if p.rate.Pair.Second.Code == ledgerCcy.Code {
		target = p.rate.Pair.First
	}
	amt, err := p.rate.Convert(p.tx.Amount.Amount, CurrencyPair{First: ledgerCcy, Second: target})
	if err != nil {
		return err
	}
	p.amount = amt
	p.amountKnown = !p.rate.IsUndefined()
	if p.IsCurrencyUnknown() {
		p.ccy = target
	}
	return nil
}

func (p *Payment) isLedgerCurrency(ccy Currency) bool {
	return ccy.Code == p.tx.Ledger.NativeCurrency
}

// CurrencyPair returns (ledger currency, user currency).
func (p *Payment) CurrencyPair() CurrencyPair {
	return CurrencyPair{First: p.tx.Amount.Currency, Second: p.ccy}
}

// DisplayText formats the user amount, or the ledger amount when the user amount is unknown.
func (p *Payment) DisplayText() string {
	if p.amountKnown {
		return p.amount.StringFixed(2) + " " + p.ccy.Code
	}
	return p.tx.Amount.String()
}

func (p *Payment) SenderWallet() Wallet   { return p.tx.Sender }
func (p *Payment) ReceiverWallet() Wallet { return p.tx.Receiver }
func (p *Payment) State() TransmissionState {
	return p.tx.State()
}

// Validate checks that the payment can be submitted.
func (p *Payment) Validate() error {
	var errs []error
	if p.tx.Sender.IsZero() {
		errs = append(errs, errors.New("sender wallet is required"))
	}
	if p.tx.Receiver.IsZero() {
		errs = append(errs, errors.New("receiver wallet is required"))
	}
	if p.tx.Sender.Address != "" && p.tx.Sender.SameAddress(p.tx.Receiver) {
		errs = append(errs, errors.New("sender and receiver wallet must differ"))
	}
	if !p.tx.Amount.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("ledger amount must be positive, got %s", p.tx.Amount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, errors.Join(errs...))
	}
	return nil
}
