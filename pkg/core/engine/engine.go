// Package engine composes the metric pipeline: statement index in,
// classified ROIC-WACC spread out, with the cache short-circuiting
// repeat evaluations.
package engine

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"capital_metrics/pkg/core/calc"
	"capital_metrics/pkg/core/statements"
	"capital_metrics/pkg/core/store"
)

// DefaultYears is the requested filing window when the caller does not
// specify one.
const DefaultYears = 5

// IndexProvider supplies the normalized statement index for a ticker.
// Implementations may fetch from a filing service, a local snapshot
// file, or a database; the engine only ever sees the index.
type IndexProvider interface {
	StatementIndex(ctx context.Context, ticker string, years int) (*statements.Index, error)
}

// Options control a single evaluation. Zero Years means DefaultYears;
// nil CAPM fields keep the calc defaults.
type Options struct {
	Years             int
	RiskFreeRate      *float64
	MarketRiskPremium *float64
	Beta              *float64
	Sensitivity       bool
}

// Engine wires the provider, the calculation layer, and the cache.
// It is synchronous per invocation; callers may run independent
// tickers in parallel, the cache serializes per ticker.
type Engine struct {
	provider IndexProvider
	cache    *store.Cache
}

// New creates an engine over the given provider and cache.
func New(provider IndexProvider, cache *store.Cache) *Engine {
	return &Engine{provider: provider, cache: cache}
}

// Evaluate returns the spread bundle for the ticker, served from cache
// when a valid entry exists. Extraction errors propagate untouched so
// the caller can distinguish InsufficientDataError (retry later) from
// FinancialDataError (terminal for the ticker).
func (e *Engine) Evaluate(ctx context.Context, ticker string, opts Options) (*calc.SpreadResult, error) {
	return e.cache.GetOrCompute(ctx, ticker, func(ctx context.Context) (*calc.SpreadResult, error) {
		return e.EvaluateUncached(ctx, ticker, opts)
	})
}

// EvaluateUncached runs the full pipeline against a fresh statement
// index, bypassing the cache.
func (e *Engine) EvaluateUncached(ctx context.Context, ticker string, opts Options) (*calc.SpreadResult, error) {
	years := opts.Years
	if years <= 0 {
		years = DefaultYears
	}

	idx, err := e.provider.StatementIndex(ctx, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("statement index for %s: %w", ticker, err)
	}

	history, err := calc.ExtractROICHistory(idx, years)
	if err != nil {
		return nil, err
	}
	for _, rec := range history {
		log.Info().Str("ticker", ticker).
			Int("fiscal_year", rec.FiscalYear).
			Float64("roic", rec.ROIC).
			Msg("extracted roic")
	}

	components, err := calc.ExtractWACCComponents(idx, calc.CAPMOverrides{
		RiskFreeRate:      opts.RiskFreeRate,
		MarketRiskPremium: opts.MarketRiskPremium,
		Beta:              opts.Beta,
	})
	if err != nil {
		return nil, err
	}
	waccResult := calc.CalculateWACC(components, opts.Sensitivity)
	log.Info().Str("ticker", ticker).
		Float64("wacc", waccResult.BaselineWACC).
		Msg("calculated wacc")

	result, err := calc.CalculateSpread(history, waccResult)
	if err != nil {
		return nil, err
	}
	log.Info().Str("ticker", ticker).
		Float64("current_spread", result.CurrentSpread).
		Str("trend", result.SpreadTrend).
		Str("durability", result.DurabilityAssessment).
		Msg("calculated roic-wacc spread")

	return &result, nil
}
