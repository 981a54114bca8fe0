package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) SubmitPayments(ctx context.Context, payments []*domain.Payment) ([]domain.SubmitOutcome, error) {
	args := m.Called(ctx, payments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmitOutcome), args.Error(1)
}

func (m *MockPaymentService) BuildPayment(ctx context.Context, req dto.PaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPaymentsReceived(ctx context.Context, wallet domain.Wallet, period domain.Period, marker string) (*domain.TransactionResult, error) {
	args := m.Called(ctx, wallet, period, marker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResult), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) IndexAt(ctx context.Context, t time.Time) (domain.LedgerAtTime, bool, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(domain.LedgerAtTime), args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) EstimatedDaysAgo(ctx context.Context, days int) (domain.LedgerAtTime, bool, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(domain.LedgerAtTime), args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) Range(ctx context.Context, period domain.Period) (domain.LedgerRange, bool, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(domain.LedgerRange), args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) Status(ctx context.Context) (*portssvc.LedgerStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.LedgerStatus), args.Error(1)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, subject string) (string, time.Time, error) {
	args := m.Called(ctx, subject)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code, issuer string) (*domain.CurrencyDefinition, error) {
	args := m.Called(ctx, code, issuer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyDefinition), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyDefinition), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.CurrencyDefinition, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyDefinition), args.Error(1)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) FindRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock AccountMappingService ---
type MockAccountMappingService struct {
	mock.Mock
}

func (m *MockAccountMappingService) FindWallet(ctx context.Context, account domain.BankAccount) (*domain.Wallet, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockAccountMappingService) FindBankAccount(ctx context.Context, wallet domain.Wallet) (*domain.BankAccount, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockAccountMappingService) ListMappings(ctx context.Context, limit, offset int) ([]domain.AccountMapping, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

func (m *MockAccountMappingService) SaveMapping(ctx context.Context, req dto.CreateAccountMappingRequest, creatorUserID string) (*domain.AccountMapping, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockAccountMappingService) DeleteMapping(ctx context.Context, mappingID string) error {
	args := m.Called(ctx, mappingID)
	return args.Error(0)
}

// --- Mock SubmissionService ---
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, txs []*domain.Transaction) ([]domain.SubmitOutcome, error) {
	args := m.Called(ctx, txs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmitOutcome), args.Error(1)
}

var (
	_ portssvc.PaymentSvcFacade        = (*MockPaymentService)(nil)
	_ portssvc.LedgerSvcFacade         = (*MockLedgerService)(nil)
	_ portssvc.TokenSvcFacade          = (*MockTokenService)(nil)
	_ portssvc.CurrencySvcFacade       = (*MockCurrencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade   = (*MockExchangeRateService)(nil)
	_ portssvc.AccountMappingSvcFacade = (*MockAccountMappingService)(nil)
	_ portssvc.SubmissionSvc           = (*MockSubmissionService)(nil)
)
