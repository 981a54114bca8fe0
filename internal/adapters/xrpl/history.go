package xrpl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/memo"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
)

// accountTxEntry is one element of an account_tx result. API version 1 nodes
// return the transaction under "tx", version 2 under "tx_json" with the hash
// next to it.
type accountTxEntry struct {
	Tx        *PaymentTx `json:"tx"`
	TxJSON    *PaymentTx `json:"tx_json"`
	Hash      string     `json:"hash"`
	Meta      txMeta     `json:"meta"`
	Validated bool       `json:"validated"`
}

type txMeta struct {
	TransactionResult string          `json:"TransactionResult"`
	DeliveredAmount   json.RawMessage `json:"delivered_amount"`
}

// decodeTransaction converts a validated, successful payment. Other
// transaction types and failed payments are skipped.
func decodeTransaction(l domain.Ledger, entry accountTxEntry) (*domain.Transaction, bool, error) {
	raw := entry.TxJSON
	if raw == nil {
		raw = entry.Tx
	}
	if raw == nil || !entry.Validated || raw.TransactionType != txTypePayment {
		return nil, false, nil
	}
	if entry.Meta.TransactionResult != ledger.SuccessCode {
		return nil, false, nil
	}

	hash := raw.Hash
	if hash == "" {
		hash = entry.Hash
	}

	amount, err := deliveredAmount(l, raw.Amount, entry.Meta.DeliveredAmount)
	if err != nil {
		return nil, false, fmt.Errorf("transaction %s: %w", hash, err)
	}

	tx := domain.NewTransaction(l)
	tx.Amount = amount
	tx.Sender = domain.Wallet{Address: raw.Account}
	tx.Receiver = domain.Wallet{Address: raw.Destination}
	tx.DestinationTag = raw.DestinationTag
	tx.InvoiceID = raw.InvoiceID
	tx.Booked = fromRippleTime(raw.Date).UTC()
	tx.SetLedgerTransactionFee(feeOrZero(l, raw.Fee))

	for _, m := range raw.Memos {
		data := m.Memo.data()
		if len(data) == 0 {
			continue
		}
		res := memo.Decode(data)
		for _, ref := range res.References {
			tx.AddReference(ref)
		}
		for _, text := range res.FreeText {
			if text = strings.TrimSpace(text); text != "" {
				tx.AddMessage(text)
			}
		}
	}

	tx.MarkSuccess(hash, tx.Booked)
	return tx, true, nil
}

// deliveredAmount prefers the amount the ledger actually delivered, which
// differs from Amount for partial payments. Old ledgers report it as
// "unavailable".
func deliveredAmount(l domain.Ledger, amount Amount, delivered json.RawMessage) (domain.Money, error) {
	if len(delivered) > 0 {
		var d Amount
		if err := json.Unmarshal(delivered, &d); err == nil && d.Drops != "unavailable" && !d.IsZero() {
			return d.toMoney(l)
		}
	}
	if amount.IsZero() {
		return domain.Money{}, fmt.Errorf("payment without amount")
	}
	return amount.toMoney(l)
}
