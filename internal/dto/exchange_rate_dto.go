package dto

import (
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
// One unit of FromCurrencyCode is worth Rate units of ToCurrencyCode.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,min=3,max=40,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,min=3,max=40,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	EffectiveAt      *time.Time      `json:"effectiveAt,omitempty"` // Defaults to now
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveAt      time.Time       `json:"effectiveAt"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ID,
		FromCurrencyCode: rate.Pair.First.Code,
		ToCurrencyCode:   rate.Pair.Second.Code,
		Rate:             rate.Rate,
		EffectiveAt:      rate.PointInTime,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
