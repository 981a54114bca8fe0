package xrpl

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
)

const (
	txTypePayment = "Payment"
	memoFormat    = "json"
)

// PaymentTx is the JSON form of a Payment transaction.
type PaymentTx struct {
	TransactionType    string        `json:"TransactionType" validate:"required,eq=Payment"`
	Account            string        `json:"Account" validate:"required,xrpl_address"`
	Destination        string        `json:"Destination" validate:"required,xrpl_address,nefield=Account"`
	DestinationTag     *uint32       `json:"DestinationTag,omitempty"`
	Amount             Amount        `json:"Amount"`
	SendMax            *Amount       `json:"SendMax,omitempty"`
	Fee                string        `json:"Fee" validate:"required,numeric"`
	Flags              uint32        `json:"Flags"`
	Sequence           uint32        `json:"Sequence" validate:"required"`
	LastLedgerSequence uint32        `json:"LastLedgerSequence,omitempty"`
	InvoiceID          string        `json:"InvoiceID,omitempty" validate:"omitempty,hexadecimal,len=64"`
	SigningPubKey      string        `json:"SigningPubKey,omitempty"`
	Memos              []MemoWrapper `json:"Memos,omitempty" validate:"dive"`
	Date               int64         `json:"date,omitempty"`
	Hash               string        `json:"hash,omitempty"`
}

type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// Memo fields are hex encoded.
type Memo struct {
	MemoData   string `json:"MemoData,omitempty" validate:"omitempty,hexadecimal"`
	MemoFormat string `json:"MemoFormat,omitempty" validate:"omitempty,hexadecimal"`
	MemoType   string `json:"MemoType,omitempty" validate:"omitempty,hexadecimal"`
}

func newMemo(data []byte) MemoWrapper {
	return MemoWrapper{Memo: Memo{
		MemoData:   strings.ToUpper(hex.EncodeToString(data)),
		MemoFormat: strings.ToUpper(hex.EncodeToString([]byte(memoFormat))),
	}}
}

// data returns the decoded MemoData, or nil if it is empty or not hex.
func (m Memo) data() []byte {
	if m.MemoData == "" {
		return nil
	}
	raw, err := hex.DecodeString(m.MemoData)
	if err != nil {
		return nil
	}
	return raw
}

// buildPayment maps an unsigned payment onto its wire form.
func buildPayment(l domain.Ledger, p ledger.UnsignedPayment, key ledger.PrivateKey) (PaymentTx, error) {
	amount, err := toAmount(l, p.Amount)
	if err != nil {
		return PaymentTx{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !l.IsNative(p.Fee.Currency) {
		return PaymentTx{}, fmt.Errorf("%w: fee must be paid in %s, got %s", apperrors.ErrValidation, l.NativeCurrency, p.Fee.Currency)
	}
	fee, err := toAmount(l, p.Fee)
	if err != nil {
		return PaymentTx{}, fmt.Errorf("invalid fee: %w", err)
	}

	tx := PaymentTx{
		TransactionType:    txTypePayment,
		Account:            p.Account,
		Destination:        p.Destination,
		DestinationTag:     p.DestinationTag,
		Amount:             amount,
		Fee:                fee.Drops,
		Sequence:           p.Sequence,
		LastLedgerSequence: p.LastLedgerSequence,
		InvoiceID:          strings.ToUpper(p.InvoiceID),
	}
	if len(key.PublicKey) > 0 {
		tx.SigningPubKey = strings.ToUpper(hex.EncodeToString(key.PublicKey))
	}
	if p.SendMax != nil {
		sendMax, err := toAmount(l, *p.SendMax)
		if err != nil {
			return PaymentTx{}, fmt.Errorf("invalid send max: %w", err)
		}
		tx.SendMax = &sendMax
	}
	for _, m := range p.Memos {
		tx.Memos = append(tx.Memos, newMemo(m))
	}
	return tx, nil
}
