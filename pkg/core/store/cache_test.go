package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"capital_metrics/pkg/core/calc"
)

func sampleResult(currentSpread float64) *calc.SpreadResult {
	components := calc.WACCComponents{
		CostOfEquity: 0.095, CostOfDebt: 0.04, TaxRate: 0.21,
		DebtRatio: 0.2, EquityRatio: 0.8, TotalDebt: 1000, TotalEquity: 4000,
		RiskFreeRate: 0.04, Beta: 1.0, MarketRiskPremium: 0.055,
	}
	wacc := calc.CalculateWACC(components, true)
	history := calc.ROICHistory{
		{FiscalYear: 2021, NOPAT: 79, InvestedCapital: 700, ROIC: wacc.BaselineWACC + currentSpread - 0.02},
		{FiscalYear: 2022, NOPAT: 85, InvestedCapital: 720, ROIC: wacc.BaselineWACC + currentSpread - 0.01},
		{FiscalYear: 2023, NOPAT: 95, InvestedCapital: 730, ROIC: wacc.BaselineWACC + currentSpread},
	}
	res, err := calc.CalculateSpread(history, wacc)
	if err != nil {
		panic(err)
	}
	return &res
}

// fakeClock is a settable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGetOrComputeIdempotentWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCacheWithClock(NewMemoryStore(), 90, clock.Now)

	var calls int32
	compute := func(context.Context) (*calc.SpreadResult, error) {
		atomic.AddInt32(&calls, 1)
		return sampleResult(0.05), nil
	}

	first, err := cache.GetOrCompute(context.Background(), "AAPL", compute)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(89 * 24 * time.Hour)
	second, err := cache.GetOrCompute(context.Background(), "AAPL", compute)
	if err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 compute call within TTL, got %d", got)
	}
	// Payload served verbatim.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached payload diverged:\n  first:  %+v\n  second: %+v", first, second)
	}
}

func TestGetOrComputeRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	ms := NewMemoryStore()
	cache := NewCacheWithClock(ms, 90, clock.Now)

	var calls int32
	compute := func(context.Context) (*calc.SpreadResult, error) {
		atomic.AddInt32(&calls, 1)
		return sampleResult(0.05), nil
	}

	if _, err := cache.GetOrCompute(context.Background(), "AAPL", compute); err != nil {
		t.Fatal(err)
	}
	before, _ := ms.Load(context.Background(), "AAPL")

	clock.Advance(91 * 24 * time.Hour)
	if _, err := cache.GetOrCompute(context.Background(), "AAPL", compute); err != nil {
		t.Fatal(err)
	}
	after, _ := ms.Load(context.Background(), "AAPL")

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected recompute after TTL, got %d calls", got)
	}
	if !after.ComputedAt.After(before.ComputedAt) {
		t.Error("expected computed_at to be overwritten on refresh")
	}
}

func TestFailedComputeKeepsPriorEntry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	ms := NewMemoryStore()
	cache := NewCacheWithClock(ms, 90, clock.Now)

	good := func(context.Context) (*calc.SpreadResult, error) {
		return sampleResult(0.05), nil
	}
	boom := func(context.Context) (*calc.SpreadResult, error) {
		return nil, &calc.FinancialDataError{Reason: "upstream outage"}
	}

	if _, err := cache.GetOrCompute(context.Background(), "AAPL", good); err != nil {
		t.Fatal(err)
	}

	// Past TTL the entry is stale, so the failing compute runs; its
	// error propagates untouched and the old entry survives.
	clock.Advance(91 * 24 * time.Hour)
	_, err := cache.GetOrCompute(context.Background(), "AAPL", boom)
	if !calc.IsFinancialDataError(err) {
		t.Fatalf("expected the compute error to propagate, got %v", err)
	}
	rec, _ := ms.Load(context.Background(), "AAPL")
	if rec == nil {
		t.Fatal("prior entry must not be removed by a failed computation")
	}
	if !rec.ComputedAt.Equal(clock.Now().Add(-91 * 24 * time.Hour)) {
		t.Error("prior entry must not be overwritten by a failed computation")
	}
}

func TestFailedComputeWritesNothingOnEmptyCache(t *testing.T) {
	ms := NewMemoryStore()
	cache := NewCache(ms, 90)

	boom := func(context.Context) (*calc.SpreadResult, error) {
		return nil, &calc.FinancialDataError{Reason: "negative equity"}
	}
	if _, err := cache.GetOrCompute(context.Background(), "WISH", boom); err == nil {
		t.Fatal("expected error")
	}
	if rec, _ := ms.Load(context.Background(), "WISH"); rec != nil {
		t.Error("no cache entry may be written for a failed computation")
	}
}

func TestGetOrComputePerTickerExclusion(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 90)

	var calls int32
	compute := func(context.Context) (*calc.SpreadResult, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond) // widen the race window
		return sampleResult(0.05), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrCompute(context.Background(), "aapl", compute); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// All eight callers raced the same ticker; exactly one computed.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single compute under concurrency, got %d", got)
	}
}

func TestGetOrComputeErrorsAreNotCached(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 90)

	var calls int32
	boom := func(context.Context) (*calc.SpreadResult, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("transient upstream failure")
	}

	// No negative caching: each call retries the computation.
	for i := 0; i < 2; i++ {
		if _, err := cache.GetOrCompute(context.Background(), "AAPL", boom); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 compute attempts, got %d", got)
	}
}
