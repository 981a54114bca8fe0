package dto

import (
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// CreateAccountMappingRequest links a bank account to a wallet.
type CreateAccountMappingRequest struct {
	BankAccount   string `json:"bankAccount" binding:"required,max=64"`
	WalletAddress string `json:"walletAddress" binding:"required,xrpl_address"`
	PartyID       string `json:"partyID,omitempty" binding:"omitempty,max=255"`
}

// AccountMappingResponse is the API view of a mapping.
type AccountMappingResponse struct {
	MappingID     string    `json:"mappingID"`
	LedgerID      string    `json:"ledgerID"`
	BankAccount   string    `json:"bankAccount"`
	WalletAddress string    `json:"walletAddress"`
	PartyID       string    `json:"partyID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// ListAccountMappingsParams defines query parameters for listing mappings.
type ListAccountMappingsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

func ToAccountMappingResponse(m *domain.AccountMapping) AccountMappingResponse {
	return AccountMappingResponse{
		MappingID:     m.MappingID,
		LedgerID:      string(m.LedgerID),
		BankAccount:   m.BankAccount.Unformatted,
		WalletAddress: m.WalletAddress,
		PartyID:       m.PartyID,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func ToListAccountMappingResponse(ms []domain.AccountMapping) []AccountMappingResponse {
	res := make([]AccountMappingResponse, len(ms))
	for i := range ms {
		res[i] = ToAccountMappingResponse(&ms[i])
	}
	return res
}
