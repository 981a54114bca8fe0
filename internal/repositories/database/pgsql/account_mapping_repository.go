package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_bridge/internal/models"
	"github.com/SscSPs/ledger_bridge/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountMappingColumns = `mapping_id, ledger_id, bank_account, wallet_address, COALESCE(party_id, ''), created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountMappingRepository struct {
	BaseRepository
}

func newPgxAccountMappingRepository(pool *pgxpool.Pool) portsrepo.AccountMappingRepositoryFacade {
	return &PgxAccountMappingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountMappingRepositoryFacade = (*PgxAccountMappingRepository)(nil)

// SaveMapping upserts on (ledger_id, bank_account).
func (r *PgxAccountMappingRepository) SaveMapping(ctx context.Context, m domain.AccountMapping) error {
	model := mapping.ToModelAccountMapping(m)

	var partyID *string
	if model.PartyID != "" {
		partyID = &model.PartyID
	}

	query := `
		INSERT INTO account_mappings (mapping_id, ledger_id, bank_account, wallet_address, party_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ledger_id, bank_account) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			party_id = EXCLUDED.party_id,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		model.MappingID, model.LedgerID, model.BankAccount, model.WalletAddress, partyID,
		model.CreatedAt, model.CreatedBy, model.LastUpdatedAt, model.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account mapping for %s: %w", model.BankAccount, err)
	}
	return nil
}

// DeleteMapping removes a mapping by ID.
func (r *PgxAccountMappingRepository) DeleteMapping(ctx context.Context, mappingID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM account_mappings WHERE mapping_id = $1;`, mappingID)
	if err != nil {
		return fmt.Errorf("failed to delete account mapping %s: %w", mappingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountMappingRepository) FindMappingByBankAccount(ctx context.Context, ledgerID domain.LedgerID, account domain.BankAccount) (*domain.AccountMapping, error) {
	query := `SELECT ` + accountMappingColumns + ` FROM account_mappings WHERE ledger_id = $1 AND bank_account = $2;`
	return r.findOne(ctx, query, string(ledgerID), account.Unformatted)
}

func (r *PgxAccountMappingRepository) FindMappingByWallet(ctx context.Context, ledgerID domain.LedgerID, address string) (*domain.AccountMapping, error) {
	query := `SELECT ` + accountMappingColumns + ` FROM account_mappings WHERE ledger_id = $1 AND wallet_address = $2 ORDER BY created_at LIMIT 1;`
	return r.findOne(ctx, query, string(ledgerID), address)
}

// ListMappings retrieves a paginated list of mappings ordered by bank account.
func (r *PgxAccountMappingRepository) ListMappings(ctx context.Context, limit int, offset int) ([]domain.AccountMapping, error) {
	query := `SELECT ` + accountMappingColumns + ` FROM account_mappings ORDER BY ledger_id, bank_account LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query account mappings: %w", err)
	}
	defer rows.Close()

	modelMappings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountMapping, error) {
		return scanAccountMapping(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan account mappings: %w", err)
	}

	result := make([]domain.AccountMapping, len(modelMappings))
	for i, m := range modelMappings {
		result[i] = mapping.ToDomainAccountMapping(m)
	}
	return result, nil
}

func (r *PgxAccountMappingRepository) findOne(ctx context.Context, query string, args ...any) (*domain.AccountMapping, error) {
	model, err := scanAccountMapping(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account mapping: %w", err)
	}
	d := mapping.ToDomainAccountMapping(model)
	return &d, nil
}

func scanAccountMapping(row pgx.Row) (models.AccountMapping, error) {
	var m models.AccountMapping
	err := row.Scan(
		&m.MappingID, &m.LedgerID, &m.BankAccount, &m.WalletAddress, &m.PartyID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}
