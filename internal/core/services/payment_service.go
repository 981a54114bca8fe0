package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultMaxPages = 10

// PaymentService builds, submits and lists payments on one ledger.
type PaymentService struct {
	BaseService
	client         ledger.Client
	submission     portssvc.SubmissionSvc
	resolver       portssvc.LedgerTimeResolverSvc
	rates          portssvc.ExchangeRateReaderSvc
	currencies     portssvc.CurrencyReaderSvc
	mappings       portssvc.AccountMappingReaderSvc
	targetCurrency string
	maxPages       int
}

// PaymentServiceOption configures optional collaborators of a PaymentService.
type PaymentServiceOption func(*PaymentService)

// WithExchangeRates enables rate lookups for fiat amounts and received payments.
func WithExchangeRates(rates portssvc.ExchangeRateReaderSvc) PaymentServiceOption {
	return func(s *PaymentService) {
		s.rates = rates
	}
}

// WithCurrencyCatalog enables transfer fee lookups for issued currencies.
func WithCurrencyCatalog(currencies portssvc.CurrencyReaderSvc) PaymentServiceOption {
	return func(s *PaymentService) {
		s.currencies = currencies
	}
}

// WithAccountMappings enables bank account resolution.
func WithAccountMappings(mappings portssvc.AccountMappingReaderSvc) PaymentServiceOption {
	return func(s *PaymentService) {
		s.mappings = mappings
	}
}

// WithTargetCurrency sets the currency received payments are converted into.
func WithTargetCurrency(code string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.targetCurrency = strings.ToUpper(strings.TrimSpace(code))
	}
}

// WithMaxPages limits the account history pages fetched per query.
func WithMaxPages(n int) PaymentServiceOption {
	return func(s *PaymentService) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

func NewPaymentService(client ledger.Client, submission portssvc.SubmissionSvc, resolver portssvc.LedgerTimeResolverSvc, options ...PaymentServiceOption) *PaymentService {
	s := &PaymentService{
		client:     client,
		submission: submission,
		resolver:   resolver,
		maxPages:   defaultMaxPages,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// SubmitPayments refreshes and validates every payment and submits the valid
// ones. Invalid payments are reported in their outcome and never reach the ledger.
func (s *PaymentService) SubmitPayments(ctx context.Context, payments []*domain.Payment) ([]domain.SubmitOutcome, error) {
	outcomes := make([]domain.SubmitOutcome, len(payments))
	var txs []*domain.Transaction
	var positions []int

	for i, p := range payments {
		if p == nil {
			outcomes[i] = domain.SubmitOutcome{Err: fmt.Errorf("%w: payment is nil", apperrors.ErrValidation)}
			continue
		}
		tx := p.Transaction()
		outcomes[i] = domain.SubmitOutcome{Transaction: tx, Sender: tx.Sender.Address}

		err := p.RefreshAmounts()
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			s.LogInfo(ctx, "Payment rejected before submission", slog.String("end_to_end_id", p.EndToEndID), slog.String("error", err.Error()))
			if !tx.State().IsTerminal() {
				tx.MarkError(err)
			}
			outcomes[i].Err = err
			continue
		}
		txs = append(txs, tx)
		positions = append(positions, i)
	}

	if len(txs) == 0 {
		return outcomes, nil
	}

	submitted, err := s.submission.Submit(ctx, txs)
	if err != nil {
		return nil, err
	}
	for j, out := range submitted {
		outcomes[positions[j]] = out
	}
	return outcomes, nil
}

// BuildPayment creates a payment from an API request.
func (s *PaymentService) BuildPayment(ctx context.Context, req dto.PaymentRequest) (*domain.Payment, error) {
	l := s.client.Ledger()
	tx := domain.NewTransaction(l)
	tx.Sender = domain.Wallet{Address: strings.TrimSpace(req.SenderAddress), Secret: req.SenderSecret}
	tx.DestinationTag = req.DestinationTag
	tx.InvoiceID = strings.ToUpper(req.InvoiceID)
	for _, ref := range req.References {
		tx.AddReference(ref.ToDomain())
	}
	for _, m := range req.Messages {
		if m = strings.TrimSpace(m); m != "" {
			tx.AddMessage(m)
		}
	}
	if req.Fee.IsPositive() {
		tx.SetLedgerTransactionFee(domain.NewMoney(req.Fee, l.Native()))
	}

	p, err := domain.NewPayment(tx)
	if err != nil {
		return nil, err
	}
	p.EndToEndID = req.EndToEndID
	if p.EndToEndID == "" {
		p.EndToEndID = uuid.NewString()
	}
	if req.ReceiverName != "" {
		p.ReceiverAddress = &domain.Address{Name: req.ReceiverName}
	}

	if err := s.resolveReceiver(ctx, p, req); err != nil {
		return nil, err
	}
	if s.mappings != nil {
		if account, err := s.mappings.FindBankAccount(ctx, tx.Sender); err == nil {
			p.SenderAccount = *account
		}
	}

	ccy, err := s.resolveCurrency(ctx, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := p.SetAmount(domain.NewMoney(req.Amount.Value, ccy)); err != nil {
		return nil, err
	}

	if !ccy.IsIssued() && !l.IsNative(ccy) {
		if s.rates == nil {
			return nil, fmt.Errorf("%w: no exchange rates configured to convert %s", apperrors.ErrValidation, ccy.Code)
		}
		rate, err := s.rates.FindRate(ctx, domain.NewCurrencyPair(ccy, l.Native()))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no exchange rate for %s/%s", apperrors.ErrValidation, ccy.Code, l.NativeCurrency)
			}
			return nil, err
		}
		if err := p.SetExchangeRate(rate); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (s *PaymentService) resolveReceiver(ctx context.Context, p *domain.Payment, req dto.PaymentRequest) error {
	tx := p.Transaction()
	if req.ReceiverBankAccount != "" {
		p.ReceiverAccount = domain.NewBankAccount(req.ReceiverBankAccount)
	}
	if req.ReceiverAddress != "" {
		tx.Receiver = domain.Wallet{Address: strings.TrimSpace(req.ReceiverAddress)}
		return nil
	}
	if s.mappings == nil || p.ReceiverAccount.IsZero() {
		return fmt.Errorf("%w: receiver wallet or mapped bank account is required", apperrors.ErrValidation)
	}
	wallet, err := s.mappings.FindWallet(ctx, p.ReceiverAccount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no wallet mapped to %s", apperrors.ErrValidation, p.ReceiverAccount.Unformatted)
		}
		return err
	}
	tx.Receiver = *wallet
	return nil
}

// resolveCurrency turns the request amount currency into a domain currency.
// Issued currencies pick up the catalog transfer fee unless one is given.
func (s *PaymentService) resolveCurrency(ctx context.Context, amt dto.AmountDTO) (domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(amt.Currency))
	if amt.Issuer == "" {
		if amt.TransferFee != nil && !amt.TransferFee.IsZero() {
			return domain.Currency{}, fmt.Errorf("%w: transfer fee requires an issued currency", apperrors.ErrValidation)
		}
		return domain.NewCurrency(code), nil
	}

	ccy := domain.NewIssuedCurrency(code, amt.Issuer)
	if amt.TransferFee != nil {
		if amt.TransferFee.IsNegative() || amt.TransferFee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return domain.Currency{}, fmt.Errorf("%w: transfer fee must be within [0, 1)", apperrors.ErrValidation)
		}
		return ccy.WithTransferFee(*amt.TransferFee), nil
	}
	if s.currencies == nil {
		return ccy, nil
	}
	def, err := s.currencies.GetCurrencyByCode(ctx, code, amt.Issuer)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ccy, nil
		}
		return domain.Currency{}, err
	}
	return ccy.WithTransferFee(def.TransferFee), nil
}

// ListPaymentsReceived lists payments received by wallet within period. A
// period that cannot be mapped to ledgers yields an empty result.
func (s *PaymentService) ListPaymentsReceived(ctx context.Context, wallet domain.Wallet, period domain.Period, marker string) (*domain.TransactionResult, error) {
	if wallet.IsZero() {
		return nil, fmt.Errorf("%w: wallet is required", apperrors.ErrValidation)
	}
	if period.To.Before(period.From) {
		return nil, fmt.Errorf("%w: period end is before its start", apperrors.ErrValidation)
	}

	result := &domain.TransactionResult{Payments: []*domain.Payment{}, Period: period}

	rng, ok, err := s.resolver.Range(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve ledger range", slog.String("wallet", wallet.Address))
		return nil, fmt.Errorf("failed to resolve ledger range: %w", err)
	}
	if !ok {
		s.LogInfo(ctx, "Ledger range unavailable", slog.Time("from", period.From), slog.Time("to", period.To))
		result.RangeUnavailable = true
		return result, nil
	}

	rates := map[string]*domain.ExchangeRate{}
	for page := 0; page < s.maxPages; page++ {
		res, err := s.client.AccountTransactions(ctx, wallet.Address, rng, marker)
		if err != nil {
			s.LogError(ctx, err, "Failed to read account transactions", slog.String("wallet", wallet.Address), slog.Int("page", page))
			return nil, fmt.Errorf("failed to read account transactions: %w", err)
		}
		for _, tx := range res.Transactions {
			if tx == nil || !tx.Receiver.SameAddress(wallet) || !period.Contains(tx.Booked) {
				continue
			}
			p, err := s.receivedPayment(ctx, tx, rates)
			if err != nil {
				return nil, err
			}
			result.Payments = append(result.Payments, p)
		}
		marker = res.Marker
		if marker == "" {
			break
		}
	}

	if marker != "" {
		result.HasMaxPageCounterReached = true
		result.NextMarker = marker
	}
	s.LogDebug(ctx, "Listed received payments", slog.String("wallet", wallet.Address), slog.Int("count", len(result.Payments)))
	return result, nil
}

func (s *PaymentService) receivedPayment(ctx context.Context, tx *domain.Transaction, rates map[string]*domain.ExchangeRate) (*domain.Payment, error) {
	p, err := domain.NewPayment(tx)
	if err != nil {
		return nil, err
	}
	p.Origin = domain.OriginLedger
	if s.mappings != nil {
		if account, err := s.mappings.FindBankAccount(ctx, tx.Sender); err == nil {
			p.SenderAccount = *account
		}
	}

	if s.targetCurrency == "" || s.rates == nil {
		return p, nil
	}
	code := tx.Amount.Currency.Code
	rate, cached := rates[code]
	if !cached {
		rate, err = s.rates.FindRate(ctx, domain.NewCurrencyPair(domain.NewCurrency(code), domain.NewCurrency(s.targetCurrency)))
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		rates[code] = rate
	}
	if rate == nil {
		return p, nil
	}
	if err := p.SetExchangeRate(rate); err != nil {
		return nil, err
	}
	return p, nil
}
