package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// AccountMappingReaderSvc defines lookups between bank accounts and wallets
type AccountMappingReaderSvc interface {
	// FindWallet returns the wallet mapped to a bank account.
	FindWallet(ctx context.Context, account domain.BankAccount) (*domain.Wallet, error)

	// FindBankAccount returns the bank account mapped to a wallet.
	FindBankAccount(ctx context.Context, wallet domain.Wallet) (*domain.BankAccount, error)

	ListMappings(ctx context.Context, limit, offset int) ([]domain.AccountMapping, error)
}

// AccountMappingWriterSvc defines write operations for account mappings
type AccountMappingWriterSvc interface {
	SaveMapping(ctx context.Context, req dto.CreateAccountMappingRequest, creatorUserID string) (*domain.AccountMapping, error)
	DeleteMapping(ctx context.Context, mappingID string) error
}

// AccountMappingSvcFacade combines all account mapping service interfaces
type AccountMappingSvcFacade interface {
	AccountMappingReaderSvc
	AccountMappingWriterSvc
}
