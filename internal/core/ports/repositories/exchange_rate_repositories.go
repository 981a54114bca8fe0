package repositories

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the most recent rate stored for the direction from -> to.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// FindExchangeRateByID retrieves a rate by its identifier.
	FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)

	// ListLatestExchangeRates retrieves the most recent rate of every stored pair.
	ListLatestExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
