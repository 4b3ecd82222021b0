package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync/atomic"
	"testing"

	"capital_metrics/pkg/core/calc"
	"capital_metrics/pkg/core/statements"
	"capital_metrics/pkg/core/store"
)

// stubProvider serves a fixed index and counts invocations.
type stubProvider struct {
	idx   *statements.Index
	err   error
	calls int32
}

func (p *stubProvider) StatementIndex(context.Context, string, int) (*statements.Index, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.idx, p.err
}

// fullIndex builds three healthy fiscal years: the ROIC worked example
// on the income side plus the 0.8/0.2 capital structure.
func fullIndex() *statements.Index {
	ix := statements.NewIndex()
	for _, y := range []int{2021, 2022, 2023} {
		ix.Set(y, "OperatingIncomeLoss", 100)
		ix.Set(y, "IncomeTaxExpenseBenefit", 21)
		ix.Set(y, "IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", 100)
		ix.Set(y, "Assets", 1000)
		ix.Set(y, "CashAndCashEquivalentsAtCarryingValue", 200)
		ix.Set(y, "LiabilitiesCurrent", 300)
		ix.Set(y, "ShortTermBorrowings", 100)
		ix.Set(y, "StockholdersEquity", 4000)
		ix.Set(y, "DebtCurrent", 400)
		ix.Set(y, "LongTermDebt", 600)
		ix.Set(y, "InterestExpense", 40)
	}
	return ix
}

func newTestEngine(p IndexProvider) *Engine {
	return New(p, store.NewCache(store.NewMemoryStore(), 90))
}

func TestEvaluateEndToEnd(t *testing.T) {
	eng := newTestEngine(&stubProvider{idx: fullIndex()})

	res, err := eng.Evaluate(context.Background(), "AAPL", Options{Sensitivity: true})
	if err != nil {
		t.Fatal(err)
	}

	// WACC = 0.8*0.095 + 0.2*0.04*0.79 = 0.08232
	if math.Abs(res.WACCResult.BaselineWACC-0.08232) > 1e-12 {
		t.Errorf("expected WACC 0.08232, got %f", res.WACCResult.BaselineWACC)
	}
	// ROIC = 79/700 every year; spread = 79/700 - 0.08232 ~ 3.05%.
	wantSpread := 79.0/700.0 - 0.08232
	if math.Abs(res.CurrentSpread-wantSpread) > 1e-12 {
		t.Errorf("expected spread %f, got %f", wantSpread, res.CurrentSpread)
	}
	// Flat series: stable trend, positive but unspectacular spread.
	if res.SpreadTrend != calc.TrendStable {
		t.Errorf("expected stable, got %s", res.SpreadTrend)
	}
	if res.DurabilityAssessment != calc.DurabilityUncertain {
		t.Errorf("expected uncertain, got %s", res.DurabilityAssessment)
	}
	if len(res.WACCResult.Scenarios) != 3 {
		t.Errorf("expected base/optimistic/pessimistic, got %v", res.WACCResult.Scenarios)
	}
	if len(res.ROICHistory) != 3 || len(res.SpreadHistory) != 3 {
		t.Error("expected 3-year histories")
	}
}

func TestEvaluateServesSecondCallFromCache(t *testing.T) {
	p := &stubProvider{idx: fullIndex()}
	eng := newTestEngine(p)

	first, err := eng.Evaluate(context.Background(), "AAPL", Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Evaluate(context.Background(), "AAPL", Options{})
	if err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&p.calls); got != 1 {
		t.Errorf("expected one upstream fetch, got %d", got)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached evaluation diverged from the original")
	}
}

func TestEvaluateUncachedBypassesCache(t *testing.T) {
	p := &stubProvider{idx: fullIndex()}
	eng := newTestEngine(p)

	for i := 0; i < 2; i++ {
		if _, err := eng.EvaluateUncached(context.Background(), "AAPL", Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&p.calls); got != 2 {
		t.Errorf("expected two upstream fetches, got %d", got)
	}
}

func TestEvaluatePropagatesInsufficientData(t *testing.T) {
	// Two usable years only.
	ix := statements.NewIndex()
	for _, y := range []int{2022, 2023} {
		ix.Set(y, "OperatingIncomeLoss", 100)
		ix.Set(y, "Assets", 1000)
		ix.Set(y, "StockholdersEquity", 500)
	}
	eng := newTestEngine(&stubProvider{idx: ix})

	_, err := eng.Evaluate(context.Background(), "AAPL", Options{})
	var insufficient *calc.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError to propagate unchanged, got %v", err)
	}
	if insufficient.Have != 2 || insufficient.Need != 3 {
		t.Errorf("expected have=2 need=3, got %+v", insufficient)
	}
}

func TestEvaluateNegativeEquityIsNotCached(t *testing.T) {
	ix := fullIndex()
	ix.Set(2023, "StockholdersEquity", -50)
	p := &stubProvider{idx: ix}
	eng := newTestEngine(p)

	for i := 0; i < 2; i++ {
		_, err := eng.Evaluate(context.Background(), "AAPL", Options{})
		var fde *calc.FinancialDataError
		if !errors.As(err, &fde) {
			t.Fatalf("expected FinancialDataError, got %v", err)
		}
	}
	// The failure was not cached: the engine retried upstream.
	if got := atomic.LoadInt32(&p.calls); got != 2 {
		t.Errorf("expected two upstream fetches, got %d", got)
	}
}

func TestEvaluateProviderErrorWrapped(t *testing.T) {
	wire := errors.New("rate limited")
	eng := newTestEngine(&stubProvider{err: wire})

	_, err := eng.Evaluate(context.Background(), "AAPL", Options{})
	if !errors.Is(err, wire) {
		t.Fatalf("expected provider error in chain, got %v", err)
	}
}

func TestEvaluateCAPMOverrides(t *testing.T) {
	eng := newTestEngine(&stubProvider{idx: fullIndex()})

	beta := 1.5
	res, err := eng.Evaluate(context.Background(), "AAPL", Options{Beta: &beta})
	if err != nil {
		t.Fatal(err)
	}
	// Re = 0.04 + 1.5*0.055 = 0.1225
	if math.Abs(res.WACCResult.Components.CostOfEquity-0.1225) > 1e-12 {
		t.Errorf("expected cost of equity 0.1225, got %f", res.WACCResult.Components.CostOfEquity)
	}
}
