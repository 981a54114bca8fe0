package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
)

// SubmitOutcome reports what happened to one transaction of a batch.
type SubmitOutcome struct {
	Transaction     *Transaction
	Sender          string
	Sequence        uint32 // Account sequence used, including the offset
	SequenceOffset  uint32
	ValidityCeiling uint32 // Last ledger index the transaction may be included in
	Err             error
}

// LedgerRejectionError is a non-success engine result returned by the ledger.
type LedgerRejectionError struct {
	Code    string
	Message string
}

func (e *LedgerRejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger rejected transaction: %s", e.Code)
	}
	return fmt.Sprintf("ledger rejected transaction: %s %s", e.Code, e.Message)
}

func (e *LedgerRejectionError) Unwrap() error {
	return apperrors.ErrLedger
}

// TransactionResult is the outcome of a history query.
type TransactionResult struct {
	Payments []*Payment
	Period   Period
	// RangeUnavailable is set when the period could not be mapped to ledgers.
	RangeUnavailable bool
	// HasMaxPageCounterReached is set when more history exists than was fetched.
	HasMaxPageCounterReached bool
	NextMarker               string
}
