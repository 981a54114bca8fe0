package mapping

import (
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate.
// Issuers are not part of a stored rate; rates are quoted per currency code.
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ID,
		FromCurrencyCode: d.Pair.First.Code,
		ToCurrencyCode:   d.Pair.Second.Code,
		Rate:             d.Rate,
		EffectiveAt:      d.PointInTime,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ID: m.ExchangeRateID,
		Pair: domain.NewCurrencyPair(
			domain.NewCurrency(m.FromCurrencyCode),
			domain.NewCurrency(m.ToCurrencyCode),
		),
		Rate:        m.Rate,
		PointInTime: m.EffectiveAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExchangeRateSlice converts a slice of model rates to domain rates
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}
