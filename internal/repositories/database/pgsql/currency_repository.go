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

const currencyColumns = `currency_code, issuer, symbol, name, precision, transfer_fee, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts or updates a currency definition.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.CurrencyDefinition) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (currency_code, issuer) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			precision = EXCLUDED.precision,
			transfer_fee = EXCLUDED.transfer_fee,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`

	_, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyCode,
		modelCurr.Issuer,
		modelCurr.Symbol,
		modelCurr.Name,
		modelCurr.Precision,
		modelCurr.TransferFee,
		modelCurr.CreatedAt,
		modelCurr.CreatedBy,
		modelCurr.LastUpdatedAt,
		modelCurr.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", modelCurr.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by code and issuer.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode, issuer string) (*domain.CurrencyDefinition, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1 AND issuer = $2;`

	modelCurr, err := scanCurrency(r.Pool.QueryRow(ctx, query, currencyCode, issuer))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_code, issuer;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var c models.Currency
	err := row.Scan(
		&c.CurrencyCode,
		&c.Issuer,
		&c.Symbol,
		&c.Name,
		&c.Precision,
		&c.TransferFee,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}
