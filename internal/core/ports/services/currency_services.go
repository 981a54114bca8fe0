package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a currency by code and issuer. An empty
	// issuer selects the fiat or native definition.
	GetCurrencyByCode(ctx context.Context, currencyCode, issuer string) (*domain.CurrencyDefinition, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.CurrencyDefinition, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRate retrieves the latest exchange rate between two currencies.
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// FindRate returns a rate for pair in either direction. Equal codes yield the identity rate.
	FindRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRate, error)

	// ListExchangeRates lists the most recent rates, newest first.
	ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new exchange rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
