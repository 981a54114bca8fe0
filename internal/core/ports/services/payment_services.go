package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// SubmissionSvc sends ledger transactions. Each transaction's transmission
// state is updated in place; a failing transaction never aborts its siblings.
type SubmissionSvc interface {
	// Submit returns one outcome per transaction, in input order. An error is
	// only returned when the batch could not be started at all.
	Submit(ctx context.Context, txs []*domain.Transaction) ([]domain.SubmitOutcome, error)
}

// PaymentSubmitterSvc defines outbound payment operations
type PaymentSubmitterSvc interface {
	// SubmitPayments refreshes and validates the payments and submits their transactions.
	SubmitPayments(ctx context.Context, payments []*domain.Payment) ([]domain.SubmitOutcome, error)

	// BuildPayment creates a payment from an API request, resolving receiver
	// wallets through account mappings and attaching exchange rates.
	BuildPayment(ctx context.Context, req dto.PaymentRequest) (*domain.Payment, error)
}

// PaymentReaderSvc defines inbound payment operations
type PaymentReaderSvc interface {
	// ListPaymentsReceived lists payments received by wallet within period.
	// marker continues a previous, truncated listing.
	ListPaymentsReceived(ctx context.Context, wallet domain.Wallet, period domain.Period, marker string) (*domain.TransactionResult, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentSubmitterSvc
	PaymentReaderSvc
}
