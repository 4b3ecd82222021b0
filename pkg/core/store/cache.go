package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"capital_metrics/pkg/core/calc"
	"capital_metrics/pkg/models"
)

// DefaultTTLDays is the validity window for cached metrics.
const DefaultTTLDays = 90

// ComputeFunc produces a fresh result for a ticker on a cache miss.
// It is the expensive, externally rate-limited part of the pipeline.
type ComputeFunc func(ctx context.Context) (*calc.SpreadResult, error)

// Cache fronts a Store with a TTL and per-ticker mutual exclusion.
// Two concurrent callers for the same ticker cannot both miss and
// duplicate the upstream extraction: the whole read-check-compute-write
// sequence runs under the ticker's lock.
type Cache struct {
	store   Store
	ttlDays int
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache creates a cache over the given store. A non-positive
// ttlDays selects DefaultTTLDays.
func NewCache(store Store, ttlDays int) *Cache {
	return NewCacheWithClock(store, ttlDays, time.Now)
}

// NewCacheWithClock creates a cache with an injected clock, so tests
// can simulate TTL expiry without sleeping.
func NewCacheWithClock(store Store, ttlDays int, now func() time.Time) *Cache {
	if ttlDays <= 0 {
		ttlDays = DefaultTTLDays
	}
	return &Cache{
		store:   store,
		ttlDays: ttlDays,
		now:     now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// TTLDays returns the configured validity window.
func (c *Cache) TTLDays() int {
	return c.ttlDays
}

func (c *Cache) tickerLock(ticker string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[ticker]
	if !ok {
		l = &sync.Mutex{}
		c.locks[ticker] = l
	}
	return l
}

// GetOrCompute returns the cached payload for the ticker when it is
// within the validity window, otherwise invokes compute and stores the
// result with computed_at = now.
//
// A failed computation never overwrites a stored entry: the error
// propagates unhandled and the prior record, if any, stays
// authoritative until it expires on its own.
func (c *Cache) GetOrCompute(ctx context.Context, ticker string, compute ComputeFunc) (*calc.SpreadResult, error) {
	key := tickerKey(ticker)
	lock := c.tickerLock(key)
	lock.Lock()
	defer lock.Unlock()

	rec, err := c.store.Load(ctx, key)
	if err != nil {
		// An unreadable entry is treated as a miss; a successful
		// recompute will replace it.
		log.Warn().Str("ticker", key).Err(err).Msg("cache load failed, recomputing")
		rec = nil
	}
	if rec != nil {
		if !rec.Stale(c.now()) {
			log.Info().Str("ticker", key).
				Int("age_days", int(rec.Age(c.now()).Hours()/24)).
				Msg("financial cache hit")
			return rec.SpreadResult(), nil
		}
		log.Info().Str("ticker", key).
			Int("age_days", int(rec.Age(c.now()).Hours()/24)).
			Msg("financial cache stale, refreshing")
	}

	result, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	fresh := models.NewRecord(uuid.NewString(), key, result, c.ttlDays, c.now())
	if err := c.store.Save(ctx, fresh); err != nil {
		// The computation succeeded; a persistence hiccup should not
		// fail the caller.
		log.Warn().Str("ticker", key).Err(err).Msg("cache save failed")
	}
	return result, nil
}
