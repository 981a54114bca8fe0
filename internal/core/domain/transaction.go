package domain

import (
	"time"
)

// TransmissionState tracks a transaction through submission.
type TransmissionState string

const (
	TransmissionPending TransmissionState = "PENDING"
	TransmissionWaiting TransmissionState = "WAITING"
	TransmissionSuccess TransmissionState = "SUCCESS"
	TransmissionError   TransmissionState = "ERROR"
)

// IsTerminal reports whether no further transitions are allowed.
func (s TransmissionState) IsTerminal() bool {
	return s == TransmissionSuccess || s == TransmissionError
}

// FeeType tags a fee attached to a transaction.
type FeeType string

const (
	FeeLedgerTransaction FeeType = "LEDGER_TRANSACTION_FEE"
	FeeTransfer          FeeType = "TRANSFER_FEE"
)

type Fee struct {
	Type   FeeType `json:"type"`
	Amount Money   `json:"amount"`
}

// Wallet is a ledger account. Secret is only set for wallets we sign for.
type Wallet struct {
	Address string `json:"address"`
	Secret  string `json:"-"`
}

func (w Wallet) IsZero() bool {
	return w.Address == ""
}

// SameAddress compares wallets by address.
func (w Wallet) SameAddress(o Wallet) bool {
	return w.Address == o.Address
}

// Transaction is a ledger-side transfer. It is mutated in place while it is
// submitted and never reused for a second submission.
type Transaction struct {
	ID             string                `json:"id,omitempty"` // Set by the ledger after successful submission
	Ledger         Ledger                `json:"ledger"`
	Amount         Money                 `json:"amount"`
	Sender         Wallet                `json:"sender"`
	Receiver       Wallet                `json:"receiver"`
	DestinationTag *uint32               `json:"destinationTag,omitempty"`
	References     []StructuredReference `json:"-"`
	Messages       []string              `json:"messages"`
	InvoiceID      string                `json:"invoiceId,omitempty"`
	Booked         time.Time             `json:"booked"`
	Fees           []Fee                 `json:"fees"`

	state         TransmissionState
	transmitError error
}

// NewTransaction creates a pending zero-amount transaction in the ledger's native currency.
func NewTransaction(l Ledger) *Transaction {
	return &Transaction{
		Ledger:     l,
		Amount:     Zero(l.Native()),
		References: []StructuredReference{},
		Messages:   []string{},
		state:      TransmissionPending,
	}
}

func (t *Transaction) State() TransmissionState {
	if t.state == "" {
		return TransmissionPending
	}
	return t.state
}

// TransmissionError is the error that moved the transaction to TransmissionError.
func (t *Transaction) TransmissionError() error {
	return t.transmitError
}

// MarkWaiting is called right before the transaction is sent to the ledger.
func (t *Transaction) MarkWaiting() {
	t.state = TransmissionWaiting
	t.transmitError = nil
}

// MarkSuccess records the ledger-assigned id and booking time.
func (t *Transaction) MarkSuccess(id string, booked time.Time) {
	t.ID = id
	t.Booked = booked
	t.state = TransmissionSuccess
	t.transmitError = nil
}

func (t *Transaction) MarkError(err error) {
	t.state = TransmissionError
	t.transmitError = err
}

func (t *Transaction) AddReference(r StructuredReference) {
	t.References = append(t.References, r)
}

func (t *Transaction) AddMessage(m string) {
	t.Messages = append(t.Messages, m)
}

// Fee returns the first fee of the given type.
func (t *Transaction) Fee(ft FeeType) (Money, bool) {
	for _, f := range t.Fees {
		if f.Type == ft {
			return f.Amount, true
		}
	}
	return Money{}, false
}

// SetLedgerTransactionFee replaces the ledger transaction fee.
func (t *Transaction) SetLedgerTransactionFee(m Money) {
	for i, f := range t.Fees {
		if f.Type == FeeLedgerTransaction {
			t.Fees[i].Amount = m
			return
		}
	}
	t.Fees = append(t.Fees, Fee{Type: FeeLedgerTransaction, Amount: m})
}
