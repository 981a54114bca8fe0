package mapping

import (
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/models"
)

// ToModelCurrency converts a domain CurrencyDefinition to a model Currency
func ToModelCurrency(d domain.CurrencyDefinition) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Issuer:       d.Issuer,
		Symbol:       d.Symbol,
		Name:         d.Name,
		Precision:    d.Precision,
		TransferFee:  d.TransferFee,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain CurrencyDefinition
func ToDomainCurrency(m models.Currency) domain.CurrencyDefinition {
	return domain.CurrencyDefinition{
		CurrencyCode: m.CurrencyCode,
		Issuer:       m.Issuer,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Precision:    m.Precision,
		TransferFee:  m.TransferFee,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to domain definitions
func ToDomainCurrencySlice(ms []models.Currency) []domain.CurrencyDefinition {
	ds := make([]domain.CurrencyDefinition, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}
