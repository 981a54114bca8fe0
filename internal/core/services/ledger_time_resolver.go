package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/SscSPs/ledger_bridge/internal/platform/cache"
)

// ResolverConfig tunes the time to ledger index search.
type ResolverConfig struct {
	MaxIterations     int
	Tolerance         time.Duration // Accepted distance between target and close time
	ReferenceInterval int64         // Ledgers between the two samples used for the average close time
	IntervalStep      int64         // Shrink step for ReferenceInterval on short chains
	ProbeStep         int64
	ProbeAttempts     int
	AvgCloseTime      time.Duration // Used when no average can be sampled
}

// DefaultResolverConfig returns the settings used on the XRP ledger.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MaxIterations:     20,
		Tolerance:         60 * time.Second,
		ReferenceInterval: 1000,
		IntervalStep:      100,
		ProbeStep:         100,
		ProbeAttempts:     10,
		AvgCloseTime:      4 * time.Second,
	}
}

// LedgerTimeCache holds resolved (index, close time) pairs. Ledger history is
// immutable, so entries never go stale and the cache can be shared by resolvers.
type LedgerTimeCache = cache.Cache[uint32, domain.LedgerAtTime]

// NewLedgerTimeCache creates an empty cache.
func NewLedgerTimeCache() *LedgerTimeCache {
	return cache.New[uint32, domain.LedgerAtTime]()
}

// LedgerTimeResolver maps points in time to ledger indices. The latest
// validated ledger is fetched once per resolver; create a new resolver per
// query batch and share the cache between them.
type LedgerTimeResolver struct {
	client ledger.Client
	cfg    ResolverConfig
	cache  *LedgerTimeCache

	mu     sync.Mutex
	latest *domain.LedgerAtTime
}

var _ portssvc.LedgerTimeResolverSvc = (*LedgerTimeResolver)(nil)

func NewLedgerTimeResolver(client ledger.Client, cfg ResolverConfig, c *LedgerTimeCache) *LedgerTimeResolver {
	if c == nil {
		c = NewLedgerTimeCache()
	}
	return &LedgerTimeResolver{client: client, cfg: cfg, cache: c}
}

// EstimatedDaysAgo estimates the ledger validated the given number of days
// before the latest one, assuming the configured average close time.
func (r *LedgerTimeResolver) EstimatedDaysAgo(ctx context.Context, days int) (domain.LedgerAtTime, bool, error) {
	latest, err := r.latestLedger(ctx)
	if err != nil {
		return domain.LedgerAtTime{}, false, err
	}
	span := time.Duration(days) * 24 * time.Hour
	ledgers := int64(span / r.cfg.AvgCloseTime)
	idx := int64(latest.Index) - ledgers
	if idx < 1 {
		return domain.LedgerAtTime{}, false, nil
	}
	return domain.LedgerAtTime{PointInTime: latest.PointInTime.Add(-span), Index: uint32(idx)}, true, nil
}

// Range resolves both ends of period. ok is false if either end is unavailable.
func (r *LedgerTimeResolver) Range(ctx context.Context, period domain.Period) (domain.LedgerRange, bool, error) {
	start, ok, err := r.IndexAt(ctx, period.From)
	if err != nil || !ok {
		return domain.LedgerRange{}, false, err
	}
	end, ok, err := r.IndexAt(ctx, period.To)
	if err != nil || !ok {
		return domain.LedgerRange{}, false, err
	}
	return domain.LedgerRange{Start: start, End: end}, true, nil
}

// IndexAt returns the first ledger closed at or shortly after t. Points in
// time after the latest validated ledger resolve to that ledger. ok is false
// when no ledger near t is available.
func (r *LedgerTimeResolver) IndexAt(ctx context.Context, t time.Time) (domain.LedgerAtTime, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	anchor, err := r.anchor(ctx, t)
	if err != nil {
		return domain.LedgerAtTime{}, false, err
	}
	if !t.Before(anchor.PointInTime) || r.accept(anchor, t) {
		return anchor, true, nil
	}

	avg, err := r.averageDuration(ctx, anchor)
	if err != nil {
		return domain.LedgerAtTime{}, false, err
	}

	best := anchor
	after := anchor // closest ledger seen that closed at or after t
	visited := map[uint32]bool{best.Index: true}

	for i := 0; i < r.cfg.MaxIterations; i++ {
		if r.accept(best, t) {
			logger.Debug("Resolved ledger for point in time",
				slog.Time("target", t), slog.Uint64("ledger_index", uint64(best.Index)), slog.Int("iterations", i))
			return best, true, nil
		}

		candidate := int64(best.Index) + r.offset(best.PointInTime.Sub(t), avg)
		if candidate < 1 {
			candidate = 1
		}

		next, found, err := r.lookupWithProbe(ctx, candidate, best)
		if err != nil {
			return domain.LedgerAtTime{}, false, err
		}
		if !found || visited[next.Index] {
			break
		}
		visited[next.Index] = true
		best = next
		if !best.PointInTime.Before(t) && best.PointInTime.Before(after.PointInTime) {
			after = best
		}
	}

	if r.accept(best, t) {
		return best, true, nil
	}

	// Ledgers closing further apart than the tolerance never converge. The
	// closest ledger after t is still exact if its predecessor closed before t.
	prev, found, err := r.lookup(ctx, int64(after.Index)-1)
	if err != nil {
		return domain.LedgerAtTime{}, false, err
	}
	if found && prev.PointInTime.Before(t) {
		logger.Debug("Ledger search did not converge, using first ledger after target",
			slog.Time("target", t), slog.Uint64("ledger_index", uint64(after.Index)))
		return after, true, nil
	}
	logger.Debug("No ledger found for point in time", slog.Time("target", t))
	return domain.LedgerAtTime{}, false, nil
}

// accept reports whether l closed within the tolerance window starting at t.
func (r *LedgerTimeResolver) accept(l domain.LedgerAtTime, t time.Time) bool {
	delta := l.PointInTime.Sub(t)
	return delta >= 0 && delta < r.cfg.Tolerance
}

// offset converts a time delta into a ledger index delta. Forward steps round
// up and backward steps round down, so the search lands at or after the target.
func (r *LedgerTimeResolver) offset(delta, avg time.Duration) int64 {
	if delta < 0 {
		return int64(math.Ceil(float64(-delta) / float64(avg)))
	}
	back := int64(math.Floor(float64(delta) / float64(avg)))
	if back < 1 {
		back = 1
	}
	return -back
}

// anchor returns the nearest cached ledger closed at or after t, or the latest validated ledger.
func (r *LedgerTimeResolver) anchor(ctx context.Context, t time.Time) (domain.LedgerAtTime, error) {
	var nearest *domain.LedgerAtTime
	for _, v := range r.cache.Values() {
		if v.PointInTime.Before(t) {
			continue
		}
		if nearest == nil || v.PointInTime.Before(nearest.PointInTime) {
			c := v
			nearest = &c
		}
	}
	if nearest != nil {
		return *nearest, nil
	}
	return r.latestLedger(ctx)
}

func (r *LedgerTimeResolver) latestLedger(ctx context.Context) (domain.LedgerAtTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest != nil {
		return *r.latest, nil
	}

	idx, err := r.client.LatestValidatedIndex(ctx)
	if err != nil {
		return domain.LedgerAtTime{}, fmt.Errorf("failed to get latest validated ledger: %w", err)
	}
	l, found, err := r.lookup(ctx, int64(idx))
	if err != nil {
		return domain.LedgerAtTime{}, err
	}
	if !found {
		return domain.LedgerAtTime{}, fmt.Errorf("latest validated ledger %d: %w", idx, ledger.ErrLedgerNotFound)
	}
	r.latest = &l
	return l, nil
}

// averageDuration samples a ledger ReferenceInterval indices before anchor.
// Short chains shrink the interval until a sample exists.
func (r *LedgerTimeResolver) averageDuration(ctx context.Context, anchor domain.LedgerAtTime) (time.Duration, error) {
	for interval := r.cfg.ReferenceInterval; interval > 0; interval -= r.cfg.IntervalStep {
		idx := int64(anchor.Index) - interval
		if idx < 1 {
			continue
		}
		ref, found, err := r.lookup(ctx, idx)
		if err != nil {
			return 0, err
		}
		if !found {
			continue
		}
		if avg := anchor.PointInTime.Sub(ref.PointInTime) / time.Duration(interval); avg > 0 {
			return avg, nil
		}
	}
	return r.cfg.AvgCloseTime, nil
}

// lookupWithProbe fetches candidate. If the node does not know it, nearby
// indices are probed in steps towards the last known good ledger.
func (r *LedgerTimeResolver) lookupWithProbe(ctx context.Context, candidate int64, good domain.LedgerAtTime) (domain.LedgerAtTime, bool, error) {
	l, found, err := r.lookup(ctx, candidate)
	if err != nil || found {
		return l, found, err
	}

	dir := int64(1)
	if candidate > int64(good.Index) {
		dir = -1
	}
	for attempt := 1; attempt <= r.cfg.ProbeAttempts; attempt++ {
		idx := candidate + dir*r.cfg.ProbeStep*int64(attempt)
		if (dir > 0 && idx >= int64(good.Index)) || (dir < 0 && idx <= int64(good.Index)) || idx < 1 {
			break
		}
		l, found, err = r.lookup(ctx, idx)
		if err != nil || found {
			return l, found, err
		}
	}
	middleware.GetLoggerFromCtx(ctx).Debug("No ledger found near candidate index", slog.Int64("candidate", candidate))
	return domain.LedgerAtTime{}, false, nil
}

func (r *LedgerTimeResolver) lookup(ctx context.Context, idx int64) (domain.LedgerAtTime, bool, error) {
	if idx < 1 || idx > math.MaxUint32 {
		return domain.LedgerAtTime{}, false, nil
	}
	key := uint32(idx)
	if l, ok := r.cache.Get(key); ok {
		return l, true, nil
	}

	h, err := r.client.LedgerAt(ctx, key)
	if err != nil {
		if ledger.IsNotFound(err) {
			return domain.LedgerAtTime{}, false, nil
		}
		return domain.LedgerAtTime{}, false, fmt.Errorf("failed to get ledger %d: %w", key, err)
	}
	l := domain.LedgerAtTime{PointInTime: h.CloseTime, Index: h.Index}
	r.cache.Put(key, l)
	return l, true, nil
}
