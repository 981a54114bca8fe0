package mapping

import (
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/models"
)

// ToModelAccountMapping converts a domain AccountMapping to a model AccountMapping
func ToModelAccountMapping(d domain.AccountMapping) models.AccountMapping {
	return models.AccountMapping{
		MappingID:     d.MappingID,
		LedgerID:      string(d.LedgerID),
		BankAccount:   d.BankAccount.Unformatted,
		WalletAddress: d.WalletAddress,
		PartyID:       d.PartyID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountMapping converts a model AccountMapping to a domain AccountMapping
func ToDomainAccountMapping(m models.AccountMapping) domain.AccountMapping {
	return domain.AccountMapping{
		MappingID:     m.MappingID,
		LedgerID:      domain.LedgerID(m.LedgerID),
		BankAccount:   domain.NewBankAccount(m.BankAccount),
		WalletAddress: m.WalletAddress,
		PartyID:       m.PartyID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
