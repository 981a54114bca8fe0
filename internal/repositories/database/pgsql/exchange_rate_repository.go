package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_bridge/internal/models"
	"github.com/SscSPs/ledger_bridge/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, effective_at, created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository stores exchange rates in PostgreSQL.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(db *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a rate. A rate for the same direction and point in
// time replaces the stored one.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)
	modelRate.FromCurrencyCode = strings.ToUpper(modelRate.FromCurrencyCode)
	modelRate.ToCurrencyCode = strings.ToUpper(modelRate.ToCurrencyCode)

	if modelRate.FromCurrencyCode == modelRate.ToCurrencyCode {
		return apperrors.NewValidationError("from and to currencies cannot be the same")
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		// Both currencies stay locked until the rate is stored.
		rows, err := tx.Query(ctx, `SELECT currency_code FROM currencies WHERE currency_code IN ($1, $2) FOR SHARE`,
			modelRate.FromCurrencyCode, modelRate.ToCurrencyCode)
		if err != nil {
			return fmt.Errorf("failed to lock currencies: %w", err)
		}
		codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("failed to lock currencies: %w", err)
		}
		known := map[string]bool{}
		for _, c := range codes {
			known[c] = true
		}
		for _, c := range []string{modelRate.FromCurrencyCode, modelRate.ToCurrencyCode} {
			if !known[c] {
				return fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, c)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO exchange_rates (`+exchangeRateColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (from_currency_code, to_currency_code, effective_at) DO UPDATE SET
				rate = EXCLUDED.rate,
				last_updated_at = EXCLUDED.last_updated_at,
				last_updated_by = EXCLUDED.last_updated_by`,
			modelRate.ExchangeRateID, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode,
			modelRate.Rate, modelRate.EffectiveAt, modelRate.CreatedAt,
			modelRate.CreatedBy, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to save exchange rate: %w", err)
		}
		return nil
	})
}

// FindExchangeRate retrieves the most recent rate for the direction from -> to.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY effective_at DESC
		LIMIT 1;
	`

	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// FindExchangeRateByID retrieves an exchange rate by its ID.
func (r *PgxExchangeRateRepository) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE exchange_rate_id = $1;`

	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate with ID " + rateID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get exchange rate by ID", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListLatestExchangeRates retrieves the most recent rate of each stored direction.
func (r *PgxExchangeRateRepository) ListLatestExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	query := `
		SELECT DISTINCT ON (from_currency_code, to_currency_code) ` + exchangeRateColumns + `
		FROM exchange_rates
		ORDER BY from_currency_code, to_currency_code, effective_at DESC
		LIMIT $1;
	`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan exchange rates", err)
	}

	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode,
		&m.Rate, &m.EffectiveAt, &m.CreatedAt,
		&m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}
