package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
)

// LedgerService answers time and status queries against one ledger. Every call
// uses a fresh LedgerTimeResolver so the latest validated ledger is current,
// while resolved close times are shared through the cache.
type LedgerService struct {
	BaseService
	client ledger.Client
	cfg    ResolverConfig
	cache  *LedgerTimeCache
}

func NewLedgerService(client ledger.Client, cfg ResolverConfig, c *LedgerTimeCache) *LedgerService {
	if c == nil {
		c = NewLedgerTimeCache()
	}
	return &LedgerService{client: client, cfg: cfg, cache: c}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// Resolver returns a resolver for one query batch.
func (s *LedgerService) Resolver() *LedgerTimeResolver {
	return NewLedgerTimeResolver(s.client, s.cfg, s.cache)
}

func (s *LedgerService) IndexAt(ctx context.Context, t time.Time) (domain.LedgerAtTime, bool, error) {
	return s.Resolver().IndexAt(ctx, t)
}

func (s *LedgerService) EstimatedDaysAgo(ctx context.Context, days int) (domain.LedgerAtTime, bool, error) {
	return s.Resolver().EstimatedDaysAgo(ctx, days)
}

func (s *LedgerService) Range(ctx context.Context, period domain.Period) (domain.LedgerRange, bool, error) {
	return s.Resolver().Range(ctx, period)
}

func (s *LedgerService) Status(ctx context.Context) (*portssvc.LedgerStatus, error) {
	validated, err := s.client.LatestValidatedIndex(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to get validated ledger")
		return nil, fmt.Errorf("%w: %w", ErrNoValidatedLedger, err)
	}
	fee, err := s.client.Fee(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to get ledger fee")
		return nil, fmt.Errorf("failed to get ledger fee: %w", err)
	}
	return &portssvc.LedgerStatus{
		Ledger:         s.client.Ledger(),
		ValidatedIndex: validated,
		BaseFee:        fee.Base,
		OpenLedgerFee:  fee.Open,
	}, nil
}
