package repositories

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by code and issuer. An empty
	// issuer selects the fiat or native definition.
	FindCurrencyByCode(ctx context.Context, currencyCode, issuer string) (*domain.CurrencyDefinition, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a currency, updating an existing definition.
	SaveCurrency(ctx context.Context, currency domain.CurrencyDefinition) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
