package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// LedgerTimeResolverSvc maps wall-clock time to ledger indices.
// A false ok means no ledger near the requested time is available.
type LedgerTimeResolverSvc interface {
	// IndexAt returns the first ledger closed at or shortly after t.
	IndexAt(ctx context.Context, t time.Time) (domain.LedgerAtTime, bool, error)

	// EstimatedDaysAgo estimates the ledger validated the given number of days ago.
	EstimatedDaysAgo(ctx context.Context, days int) (domain.LedgerAtTime, bool, error)

	// Range resolves both ends of a period.
	Range(ctx context.Context, period domain.Period) (domain.LedgerRange, bool, error)
}

// LedgerStatus is a snapshot of the connected ledger.
type LedgerStatus struct {
	Ledger         domain.Ledger
	ValidatedIndex uint32
	BaseFee        domain.Money
	OpenLedgerFee  domain.Money
}

// LedgerSvcFacade combines time resolution with general ledger information.
type LedgerSvcFacade interface {
	LedgerTimeResolverSvc

	// Status returns the latest validated index and current fees.
	Status(ctx context.Context) (*LedgerStatus, error)
}
