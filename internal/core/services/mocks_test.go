package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ledger.Client ---
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) Ledger() domain.Ledger {
	return domain.XRPL
}

func (m *MockLedgerClient) AccountSequence(ctx context.Context, address string) (uint32, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockLedgerClient) LatestValidatedIndex(ctx context.Context) (uint32, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockLedgerClient) LedgerAt(ctx context.Context, index uint32) (domain.LedgerHeader, error) {
	args := m.Called(ctx, index)
	return args.Get(0).(domain.LedgerHeader), args.Error(1)
}

func (m *MockLedgerClient) AccountTransactions(ctx context.Context, address string, r domain.LedgerRange, marker string) (ledger.TransactionPage, error) {
	args := m.Called(ctx, address, r, marker)
	return args.Get(0).(ledger.TransactionPage), args.Error(1)
}

func (m *MockLedgerClient) Fee(ctx context.Context) (ledger.FeeInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(ledger.FeeInfo), args.Error(1)
}

func (m *MockLedgerClient) Sign(ctx context.Context, tx ledger.UnsignedPayment, key ledger.PrivateKey) (ledger.SignedTransaction, error) {
	args := m.Called(ctx, tx, key)
	return args.Get(0).(ledger.SignedTransaction), args.Error(1)
}

func (m *MockLedgerClient) Submit(ctx context.Context, tx ledger.SignedTransaction) (ledger.SubmitResult, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(ledger.SubmitResult), args.Error(1)
}

// --- Mock ledger.KeyResolver ---
type MockKeyResolver struct {
	mock.Mock
}

func (m *MockKeyResolver) Resolve(secret string) (ledger.PrivateKey, error) {
	args := m.Called(secret)
	return args.Get(0).(ledger.PrivateKey), args.Error(1)
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.CurrencyDefinition) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode, issuer string) (*domain.CurrencyDefinition, error) {
	args := m.Called(ctx, currencyCode, issuer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyDefinition), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyDefinition), args.Error(1)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListLatestExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock AccountMappingRepository ---
type MockAccountMappingRepository struct {
	mock.Mock
}

func (m *MockAccountMappingRepository) FindMappingByBankAccount(ctx context.Context, ledgerID domain.LedgerID, account domain.BankAccount) (*domain.AccountMapping, error) {
	args := m.Called(ctx, ledgerID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) FindMappingByWallet(ctx context.Context, ledgerID domain.LedgerID, address string) (*domain.AccountMapping, error) {
	args := m.Called(ctx, ledgerID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) ListMappings(ctx context.Context, limit int, offset int) ([]domain.AccountMapping, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) SaveMapping(ctx context.Context, mapping domain.AccountMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockAccountMappingRepository) DeleteMapping(ctx context.Context, mappingID string) error {
	args := m.Called(ctx, mappingID)
	return args.Error(0)
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

// --- Mock LedgerTimeResolver ---
type MockLedgerTimeResolver struct {
	mock.Mock
}

func (m *MockLedgerTimeResolver) IndexAt(ctx context.Context, t time.Time) (domain.LedgerAtTime, bool, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(domain.LedgerAtTime), args.Bool(1), args.Error(2)
}

func (m *MockLedgerTimeResolver) EstimatedDaysAgo(ctx context.Context, days int) (domain.LedgerAtTime, bool, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(domain.LedgerAtTime), args.Bool(1), args.Error(2)
}

func (m *MockLedgerTimeResolver) Range(ctx context.Context, period domain.Period) (domain.LedgerRange, bool, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(domain.LedgerRange), args.Bool(1), args.Error(2)
}

var (
	_ ledger.Client                            = (*MockLedgerClient)(nil)
	_ ledger.KeyResolver                       = (*MockKeyResolver)(nil)
	_ portsrepo.CurrencyRepositoryFacade       = (*MockCurrencyRepository)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade   = (*MockExchangeRateRepository)(nil)
	_ portsrepo.AccountMappingRepositoryFacade = (*MockAccountMappingRepository)(nil)
	_ portssvc.CurrencySvcFacade               = (*MockCurrencyService)(nil)
	_ portssvc.ExchangeRateReaderSvc           = (*MockExchangeRateService)(nil)
	_ portssvc.AccountMappingReaderSvc         = (*MockAccountMappingService)(nil)
	_ portssvc.SubmissionSvc                   = (*MockSubmissionService)(nil)
	_ portssvc.LedgerTimeResolverSvc           = (*MockLedgerTimeResolver)(nil)
)
