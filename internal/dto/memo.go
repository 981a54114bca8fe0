package dto

import "github.com/SscSPs/ledger_bridge/internal/core/domain"

// ReferenceDTO is a structured creditor reference.
type ReferenceDTO struct {
	Type  string `json:"type" binding:"omitempty,oneof=Unknown Scor SwissQrBill"` // Detected from the value when empty
	Value string `json:"value" binding:"required"`
}

// ToDomain normalizes the reference.
func (r ReferenceDTO) ToDomain() domain.StructuredReference {
	if r.Type == "" {
		return domain.DetectStructuredReference(r.Value)
	}
	return domain.NewStructuredReference(domain.ParseReferenceType(r.Type), r.Value)
}

func ToReferenceDTOs(refs []domain.StructuredReference) []ReferenceDTO {
	res := make([]ReferenceDTO, len(refs))
	for i, r := range refs {
		res[i] = ReferenceDTO{Type: string(r.Type()), Value: r.Value()}
	}
	return res
}

// DecodeMemoRequest carries a memo as found on the ledger.
type DecodeMemoRequest struct {
	Memo string `json:"memo" binding:"required"`
	Hex  bool   `json:"hex"` // Memo is hex encoded as stored on the ledger
}

// MemoResponse is the interpretation of a memo.
type MemoResponse struct {
	Status     string         `json:"status"`
	References []ReferenceDTO `json:"references"`
	FreeText   []string       `json:"freeText"`
}

// EncodeMemoRequest carries remittance data to put into a memo.
type EncodeMemoRequest struct {
	References []ReferenceDTO `json:"references" binding:"dive"`
	FreeText   []string       `json:"freeText"`
}

// EncodeMemoResponse holds the memo payload and its ledger (hex) form.
type EncodeMemoResponse struct {
	Memo   string `json:"memo"`
	Hex    string `json:"hex"`
	Format string `json:"format"`
}
