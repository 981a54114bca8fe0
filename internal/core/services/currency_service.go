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
	"github.com/shopspring/decimal"
)

const defaultCurrencyPrecision = 2

type CurrencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.CurrencyDefinition, error) {
	if req.TransferFee.IsNegative() || req.TransferFee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: transfer fee must be within [0, 1)", apperrors.ErrValidation)
	}
	if !req.TransferFee.IsZero() && req.Issuer == "" {
		return nil, fmt.Errorf("%w: only issued currencies carry a transfer fee", apperrors.ErrValidation)
	}

	precision := defaultCurrencyPrecision
	if req.Issuer == "" && req.CurrencyCode == domain.XRPL.NativeCurrency {
		precision = int(domain.XRPL.NativeDecimals)
	}
	if req.Precision != nil {
		precision = *req.Precision
	}

	now := time.Now().UTC()
	currency := domain.CurrencyDefinition{
		CurrencyCode: strings.TrimSpace(req.CurrencyCode),
		Issuer:       req.Issuer,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    precision,
		TransferFee:  req.TransferFee,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency", currency.Currency().String()))
	return &currency, nil
}

func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode, issuer string) (*domain.CurrencyDefinition, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode), issuer)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get currency", slog.String("currency_code", currencyCode))
		}
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.CurrencyDefinition, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.CurrencyDefinition{}, nil
	}
	return currencies, nil
}
