package repositories

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// AccountMappingReader defines read operations for bank account to wallet mappings
type AccountMappingReader interface {
	// FindMappingByBankAccount retrieves the mapping of a bank account on a ledger.
	FindMappingByBankAccount(ctx context.Context, ledgerID domain.LedgerID, account domain.BankAccount) (*domain.AccountMapping, error)

	// FindMappingByWallet retrieves the mapping of a wallet address on a ledger.
	FindMappingByWallet(ctx context.Context, ledgerID domain.LedgerID, address string) (*domain.AccountMapping, error)

	// ListMappings retrieves a paginated list of mappings.
	ListMappings(ctx context.Context, limit int, offset int) ([]domain.AccountMapping, error)
}

// AccountMappingWriter defines write operations for account mappings
type AccountMappingWriter interface {
	// SaveMapping inserts a mapping or replaces the wallet of an existing bank account mapping.
	SaveMapping(ctx context.Context, mapping domain.AccountMapping) error

	// DeleteMapping removes a mapping by ID.
	DeleteMapping(ctx context.Context, mappingID string) error
}

// AccountMappingRepositoryFacade combines all account mapping repository interfaces
type AccountMappingRepositoryFacade interface {
	AccountMappingReader
	AccountMappingWriter
}
