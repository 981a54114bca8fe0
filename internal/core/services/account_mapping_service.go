package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/google/uuid"
)

// AccountMappingService resolves bank accounts to wallets on one ledger.
type AccountMappingService struct {
	BaseService
	repo     portsrepo.AccountMappingRepositoryFacade
	ledgerID domain.LedgerID
}

func NewAccountMappingService(repo portsrepo.AccountMappingRepositoryFacade, ledgerID domain.LedgerID) *AccountMappingService {
	return &AccountMappingService{repo: repo, ledgerID: ledgerID}
}

var _ portssvc.AccountMappingSvcFacade = (*AccountMappingService)(nil)

func (s *AccountMappingService) FindWallet(ctx context.Context, account domain.BankAccount) (*domain.Wallet, error) {
	if account.IsZero() {
		return nil, fmt.Errorf("%w: bank account is empty", apperrors.ErrValidation)
	}
	m, err := s.repo.FindMappingByBankAccount(ctx, s.ledgerID, account)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet for %s: %w", account.Unformatted, err)
	}
	w := m.Wallet()
	return &w, nil
}

func (s *AccountMappingService) FindBankAccount(ctx context.Context, wallet domain.Wallet) (*domain.BankAccount, error) {
	if wallet.IsZero() {
		return nil, fmt.Errorf("%w: wallet is empty", apperrors.ErrValidation)
	}
	m, err := s.repo.FindMappingByWallet(ctx, s.ledgerID, wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account for %s: %w", wallet.Address, err)
	}
	return &m.BankAccount, nil
}

func (s *AccountMappingService) ListMappings(ctx context.Context, limit, offset int) ([]domain.AccountMapping, error) {
	mappings, err := s.repo.ListMappings(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account mappings")
		return nil, fmt.Errorf("failed to list account mappings: %w", err)
	}
	if mappings == nil {
		return []domain.AccountMapping{}, nil
	}
	return mappings, nil
}

func (s *AccountMappingService) SaveMapping(ctx context.Context, req dto.CreateAccountMappingRequest, creatorUserID string) (*domain.AccountMapping, error) {
	account := domain.NewBankAccount(req.BankAccount)
	if account.IsZero() {
		return nil, fmt.Errorf("%w: bank account is empty", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	m := domain.AccountMapping{
		MappingID:     uuid.NewString(),
		LedgerID:      s.ledgerID,
		BankAccount:   account,
		WalletAddress: req.WalletAddress,
		PartyID:       req.PartyID,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.repo.SaveMapping(ctx, m); err != nil {
		s.LogError(ctx, err, "Failed to save account mapping", slog.String("bank_account", account.Unformatted))
		return nil, fmt.Errorf("failed to save account mapping: %w", err)
	}
	s.LogInfo(ctx, "Account mapping saved", slog.String("bank_account", account.Unformatted), slog.String("wallet", req.WalletAddress))
	return &m, nil
}

func (s *AccountMappingService) DeleteMapping(ctx context.Context, mappingID string) error {
	if err := s.repo.DeleteMapping(ctx, mappingID); err != nil {
		return fmt.Errorf("failed to delete account mapping %s: %w", mappingID, err)
	}
	s.LogInfo(ctx, "Account mapping deleted", slog.String("mapping_id", mappingID))
	return nil
}
