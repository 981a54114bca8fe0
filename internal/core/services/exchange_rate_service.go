package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateService provides business logic for exchange rates.
type ExchangeRateService struct {
	BaseService
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
	now             func() time.Time
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
		now:             time.Now,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *ExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	for _, code := range []string{req.FromCurrencyCode, req.ToCurrencyCode} {
		if _, err := s.currencyService.GetCurrencyByCode(ctx, code, ""); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := s.now().UTC()
	rate := domain.NewExchangeRate(domain.NewCurrencyPair(
		domain.NewCurrency(req.FromCurrencyCode),
		domain.NewCurrency(req.ToCurrencyCode),
	))
	if err := rate.SetRate(req.Rate); err != nil {
		return nil, err
	}
	rate.ID = uuid.NewString()
	rate.PointInTime = now
	if req.EffectiveAt != nil {
		rate.PointInTime = req.EffectiveAt.UTC()
	}
	rate.AuditFields = domain.NewAuditFields(creatorUserID, now)

	if err := s.rateRepo.SaveExchangeRate(ctx, *rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("pair", rate.Pair.String()))
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate created", slog.String("rate", rate.String()))
	return rate, nil
}

// GetExchangeRate retrieves the latest rate stored for the direction from -> to.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(strings.TrimSpace(fromCode))
	toCode = strings.ToUpper(strings.TrimSpace(toCode))
	if len(fromCode) < 3 || len(toCode) < 3 {
		return nil, fmt.Errorf("%w: currency codes must have at least 3 characters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return rate, nil
}

// FindRate looks up pair in the stored direction first and falls back to the
// inverse. Equal codes yield the identity rate.
func (s *ExchangeRateService) FindRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRate, error) {
	if pair.IsOneToOne() {
		return domain.NoneRate(pair.First), nil
	}

	rate, err := s.GetExchangeRate(ctx, pair.First.Code, pair.Second.Code)
	if err == nil {
		rate.Pair = pair
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	inverse, err := s.GetExchangeRate(ctx, pair.Second.Code, pair.First.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No exchange rate stored", slog.String("pair", pair.String()))
		}
		return nil, err
	}
	inverse.Pair = pair.Invert()
	return inverse, nil
}

// ListExchangeRates lists the latest rate of every stored direction.
func (s *ExchangeRateService) ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		limit = 100
	}
	rates, err := s.rateRepo.ListLatestExchangeRates(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}
