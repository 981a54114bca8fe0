package dto

import (
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to register a currency.
// Codes longer than three characters are allowed for ledger tokens.
type CreateCurrencyRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,uppercase,min=3,max=40"`
	Issuer       string          `json:"issuer,omitempty" binding:"omitempty,xrpl_address"`
	Symbol       string          `json:"symbol" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Precision    *int            `json:"precision,omitempty" binding:"omitempty,min=0,max=15"`
	TransferFee  decimal.Decimal `json:"transferFee"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	Issuer        string          `json:"issuer,omitempty"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Precision     int             `json:"precision"`
	TransferFee   decimal.Decimal `json:"transferFee"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.CurrencyDefinition to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.CurrencyDefinition) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Issuer:        curr.Issuer,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		Precision:     curr.Precision,
		TransferFee:   curr.TransferFee,
		CreatedAt:     curr.CreatedAt,
		CreatedBy:     curr.CreatedBy,
		LastUpdatedAt: curr.LastUpdatedAt,
		LastUpdatedBy: curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of definitions to CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.CurrencyDefinition) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
