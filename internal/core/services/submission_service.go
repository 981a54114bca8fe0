package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/memo"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoValidatedLedger reports that the validated ledger index could not be resolved,
	// either for the whole batch or for a single send.
	ErrNoValidatedLedger = fmt.Errorf("%w: no validated ledger available", apperrors.ErrLedger)
	// ErrAlreadyTransmitted is reported for transactions in a terminal state.
	ErrAlreadyTransmitted = fmt.Errorf("%w: transaction was already transmitted", apperrors.ErrValidation)
	// ErrKeyMismatch is reported when the secret does not belong to the sender address.
	ErrKeyMismatch = fmt.Errorf("%w: signing key does not match sender wallet", apperrors.ErrValidation)
	// ErrMissingIssuer is reported for issued currency amounts without issuer.
	ErrMissingIssuer = fmt.Errorf("%w: issued currency requires an issuer", apperrors.ErrValidation)
)

// TransmissionListener is notified whenever a transaction changes its transmission state.
type TransmissionListener interface {
	OnTransmissionChanged(tx *domain.Transaction)
}

// TransmissionListenerFunc adapts a function to TransmissionListener.
type TransmissionListenerFunc func(tx *domain.Transaction)

func (f TransmissionListenerFunc) OnTransmissionChanged(tx *domain.Transaction) { f(tx) }

// SubmissionConfig holds the submission policy.
type SubmissionConfig struct {
	ValidityMargin   uint32          // Ledgers after the validated one a transaction stays valid
	SendMaxTolerance decimal.Decimal // Share of the transfer fee added on top of sendMax
}

func DefaultSubmissionConfig() SubmissionConfig {
	return SubmissionConfig{ValidityMargin: 4, SendMaxTolerance: decimal.RequireFromString("0.01")}
}

// sendState is carried across the sends of one sender within a batch.
type sendState struct {
	previousValidityCeiling uint32
	sequenceOffset          uint32
}

// next returns the offset for the next send. The offset advances on every
// attempt since a failed send may still have consumed its sequence.
func (s *sendState) next(ceiling uint32) uint32 {
	if s.previousValidityCeiling == 0 {
		s.sequenceOffset = 0
	} else {
		s.sequenceOffset++
	}
	s.previousValidityCeiling = ceiling
	return s.sequenceOffset
}

// SubmissionService submits ledger transactions in sender order.
type SubmissionService struct {
	client   ledger.Client
	keys     ledger.KeyResolver
	cfg      SubmissionConfig
	listener TransmissionListener
	now      func() time.Time
}

var _ portssvc.SubmissionSvc = (*SubmissionService)(nil)

// SubmissionOption configures a SubmissionService.
type SubmissionOption func(*SubmissionService)

// WithTransmissionListener registers l for state changes.
func WithTransmissionListener(l TransmissionListener) SubmissionOption {
	return func(s *SubmissionService) {
		s.listener = l
	}
}

// WithSubmissionClock overrides the clock used for booking times.
func WithSubmissionClock(now func() time.Time) SubmissionOption {
	return func(s *SubmissionService) {
		s.now = now
	}
}

func NewSubmissionService(client ledger.Client, keys ledger.KeyResolver, cfg SubmissionConfig, opts ...SubmissionOption) *SubmissionService {
	s := &SubmissionService{client: client, keys: keys, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends txs grouped by sender. Senders are processed one after the
// other in order of first appearance; within a sender the input order is kept.
func (s *SubmissionService) Submit(ctx context.Context, txs []*domain.Transaction) ([]domain.SubmitOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	validated, err := s.client.LatestValidatedIndex(ctx)
	if err != nil {
		logger.Error("Failed to resolve validated ledger", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrNoValidatedLedger, err)
	}

	outcomes := make([]domain.SubmitOutcome, len(txs))
	order, groups := groupBySender(txs)
	for _, sender := range order {
		var state sendState
		for _, i := range groups[sender] {
			outcomes[i] = s.send(ctx, txs[i], &state)
		}
	}

	for i, tx := range txs {
		if tx == nil {
			outcomes[i] = domain.SubmitOutcome{Err: fmt.Errorf("%w: transaction is nil", apperrors.ErrValidation)}
		}
	}

	logger.Info("Submitted transaction batch",
		slog.Int("count", len(txs)), slog.Int("senders", len(order)), slog.Uint64("validated_ledger", uint64(validated)))
	return outcomes, nil
}

func groupBySender(txs []*domain.Transaction) ([]string, map[string][]int) {
	var order []string
	groups := make(map[string][]int)
	for i, tx := range txs {
		if tx == nil {
			continue
		}
		addr := tx.Sender.Address
		if _, ok := groups[addr]; !ok {
			order = append(order, addr)
		}
		groups[addr] = append(groups[addr], i)
	}
	return order, groups
}

func (s *SubmissionService) send(ctx context.Context, tx *domain.Transaction, state *sendState) domain.SubmitOutcome {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("sender", tx.Sender.Address))
	out := domain.SubmitOutcome{Transaction: tx, Sender: tx.Sender.Address}

	if tx.State().IsTerminal() {
		out.Err = ErrAlreadyTransmitted
		return out
	}

	fail := func(err error) domain.SubmitOutcome {
		logger.Warn("Transaction transmission failed", slog.String("error", err.Error()), slog.Uint64("offset", uint64(out.SequenceOffset)))
		tx.MarkError(err)
		s.notify(tx)
		out.Err = err
		return out
	}

	tx.MarkWaiting()
	s.notify(tx)

	// The ceiling follows the ledger as it is now, not as it was when the batch started.
	validated, err := s.client.LatestValidatedIndex(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrNoValidatedLedger, err))
	}
	out.ValidityCeiling = validated + s.cfg.ValidityMargin
	out.SequenceOffset = state.next(out.ValidityCeiling)

	seq, err := s.client.AccountSequence(ctx, tx.Sender.Address)
	if err != nil {
		return fail(fmt.Errorf("failed to get account sequence: %w", err))
	}
	out.Sequence = seq + out.SequenceOffset

	amount, sendMax, err := s.resolveAmount(tx)
	if err != nil {
		return fail(err)
	}

	var memos [][]byte
	if !memo.IsEmpty(tx.References, tx.Messages) {
		data, err := memo.Encode(nonNilRefs(tx.References), nonNilStrings(tx.Messages))
		if err != nil {
			return fail(err)
		}
		memos = append(memos, data)
	}

	fee, err := s.resolveFee(ctx, tx)
	if err != nil {
		return fail(err)
	}

	key, err := s.keys.Resolve(tx.Sender.Secret)
	if err != nil {
		return fail(fmt.Errorf("failed to resolve signing key: %w", err))
	}
	if key.Address != tx.Sender.Address {
		return fail(fmt.Errorf("%w: key belongs to %s", ErrKeyMismatch, key.Address))
	}

	unsigned := ledger.UnsignedPayment{
		Account:            tx.Sender.Address,
		Destination:        tx.Receiver.Address,
		DestinationTag:     tx.DestinationTag,
		Amount:             amount,
		SendMax:            sendMax,
		Fee:                fee,
		Sequence:           out.Sequence,
		LastLedgerSequence: out.ValidityCeiling,
		InvoiceID:          tx.InvoiceID,
		Memos:              memos,
	}

	signed, err := s.client.Sign(ctx, unsigned, key)
	if err != nil {
		return fail(fmt.Errorf("failed to sign transaction: %w", err))
	}

	res, err := s.client.Submit(ctx, signed)
	if err != nil {
		return fail(fmt.Errorf("failed to submit transaction: %w", err))
	}
	if !res.Accepted() {
		return fail(&domain.LedgerRejectionError{Code: res.Code, Message: res.Message})
	}

	id := res.Hash
	if id == "" {
		id = signed.Hash
	}
	tx.MarkSuccess(id, s.now().UTC())
	s.notify(tx)
	logger.Info("Transaction submitted", slog.String("id", id), slog.Uint64("sequence", uint64(out.Sequence)))
	return out
}

// resolveAmount returns the amount to deliver and, for issued currencies with
// a transfer fee, the maximum the sender is willing to spend.
func (s *SubmissionService) resolveAmount(tx *domain.Transaction) (domain.Money, *domain.Money, error) {
	l := tx.Ledger
	amt := tx.Amount
	if !amt.Amount.IsPositive() {
		return domain.Money{}, nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amt)
	}

	if amt.Currency.Code == l.NativeCurrency && !amt.Currency.IsIssued() {
		return l.RoundNative(amt), nil, nil
	}
	if !amt.Currency.IsIssued() {
		return domain.Money{}, nil, fmt.Errorf("%w: %s", ErrMissingIssuer, amt.Currency.Code)
	}

	amt.Amount = l.CapTokenPrecision(amt.Amount)
	if amt.Currency.TransferFee.IsZero() {
		return amt, nil, nil
	}

	fee := amt.Currency.TransferFeeAmount(amt)
	tolerance := fee.Multiply(s.cfg.SendMaxTolerance)
	sendMax := amt
	sendMax.Amount = l.CapTokenPrecision(amt.Amount.Add(fee.Amount).Add(tolerance.Amount))
	return amt, &sendMax, nil
}

func (s *SubmissionService) resolveFee(ctx context.Context, tx *domain.Transaction) (domain.Money, error) {
	if fee, ok := tx.Fee(domain.FeeLedgerTransaction); ok && fee.Amount.IsPositive() {
		return fee, nil
	}
	info, err := s.client.Fee(ctx)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to get ledger fee: %w", err)
	}
	tx.SetLedgerTransactionFee(info.Open)
	return info.Open, nil
}

func (s *SubmissionService) notify(tx *domain.Transaction) {
	if s.listener != nil {
		s.listener.OnTransmissionChanged(tx)
	}
}

func nonNilRefs(refs []domain.StructuredReference) []domain.StructuredReference {
	if refs == nil {
		return []domain.StructuredReference{}
	}
	return refs
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// IsLedgerRejection reports whether err is a ledger rejection and returns it.
func IsLedgerRejection(err error) (*domain.LedgerRejectionError, bool) {
	var rej *domain.LedgerRejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
