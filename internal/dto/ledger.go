package dto

import (
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// LedgerAtParams defines the query of a point in time lookup.
type LedgerAtParams struct {
	Time time.Time `form:"time" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
}

// LedgerAtResponse is a ledger and its close time.
type LedgerAtResponse struct {
	Index     uint32    `json:"index"`
	CloseTime time.Time `json:"closeTime"`
}

func ToLedgerAtResponse(l domain.LedgerAtTime) LedgerAtResponse {
	return LedgerAtResponse{Index: l.Index, CloseTime: l.PointInTime}
}

// LedgerStatusResponse describes the connected ledger.
type LedgerStatusResponse struct {
	Ledger         string `json:"ledger"`
	NativeCurrency string `json:"nativeCurrency"`
	ValidatedIndex uint32 `json:"validatedIndex"`
	BaseFee        string `json:"baseFee"`
	OpenLedgerFee  string `json:"openLedgerFee"`
}
