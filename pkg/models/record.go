// Package models defines the externally visible records of the
// metrics engine. The reporting/dashboard layer consumes these as
// opaque data and must not depend on layout beyond the documented
// fields.
package models

import (
	"time"

	"capital_metrics/pkg/core/calc"
)

// Record is the flat cache payload for one ticker: every nested value
// object of the computed bundle flattened to primitive fields, so the
// record survives JSON files, JSONB columns, and process restarts.
type Record struct {
	ID         string    `json:"id"`
	Ticker     string    `json:"ticker"`
	ComputedAt time.Time `json:"computed_at"` // RFC 3339 in JSON
	TTLDays    int       `json:"ttl_days"`

	CurrentSpread        float64 `json:"current_spread"`
	SpreadTrend          string  `json:"spread_trend"`
	DurabilityAssessment string  `json:"durability_assessment"`

	ROICYears             []int     `json:"roic_years"`
	ROICValues            []float64 `json:"roic_values"`
	NOPATValues           []float64 `json:"nopat_values"`
	InvestedCapitalValues []float64 `json:"invested_capital_values"`
	SpreadValues          []float64 `json:"spread_values"`

	WACCBaseline   float64             `json:"wacc_baseline"`
	WACCScenarios  map[string]float64  `json:"wacc_scenarios,omitempty"`
	WACCComponents calc.WACCComponents `json:"wacc_components"`
}

// NewRecord flattens a computed bundle into a cache record.
func NewRecord(id, ticker string, result *calc.SpreadResult, ttlDays int, computedAt time.Time) *Record {
	rec := &Record{
		ID:                   id,
		Ticker:               ticker,
		ComputedAt:           computedAt,
		TTLDays:              ttlDays,
		CurrentSpread:        result.CurrentSpread,
		SpreadTrend:          result.SpreadTrend,
		DurabilityAssessment: result.DurabilityAssessment,
		WACCBaseline:         result.WACCResult.BaselineWACC,
		WACCScenarios:        result.WACCResult.Scenarios,
		WACCComponents:       result.WACCResult.Components,
	}
	for _, r := range result.ROICHistory {
		rec.ROICYears = append(rec.ROICYears, r.FiscalYear)
		rec.ROICValues = append(rec.ROICValues, r.ROIC)
		rec.NOPATValues = append(rec.NOPATValues, r.NOPAT)
		rec.InvestedCapitalValues = append(rec.InvestedCapitalValues, r.InvestedCapital)
	}
	for _, s := range result.SpreadHistory {
		rec.SpreadValues = append(rec.SpreadValues, s.Spread)
	}
	return rec
}

// SpreadResult reconstructs the computed bundle from the flat record.
// The round trip is lossless: a cache hit returns the stored payload
// verbatim.
func (r *Record) SpreadResult() *calc.SpreadResult {
	history := make(calc.ROICHistory, len(r.ROICYears))
	spreads := make([]calc.SpreadRecord, len(r.ROICYears))
	for i, year := range r.ROICYears {
		history[i] = calc.ROICRecord{
			FiscalYear:      year,
			NOPAT:           r.NOPATValues[i],
			InvestedCapital: r.InvestedCapitalValues[i],
			ROIC:            r.ROICValues[i],
		}
		spreads[i] = calc.SpreadRecord{
			FiscalYear: year,
			ROIC:       r.ROICValues[i],
			WACC:       r.WACCBaseline,
			Spread:     r.SpreadValues[i],
		}
	}
	return &calc.SpreadResult{
		CurrentSpread:        r.CurrentSpread,
		SpreadHistory:        spreads,
		SpreadTrend:          r.SpreadTrend,
		DurabilityAssessment: r.DurabilityAssessment,
		ROICHistory:          history,
		WACCResult: calc.WACCResult{
			BaselineWACC: r.WACCBaseline,
			Scenarios:    r.WACCScenarios,
			Components:   r.WACCComponents,
		},
	}
}

// Age returns how long ago the record was computed.
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.ComputedAt)
}

// Stale reports whether the validity window has elapsed.
func (r *Record) Stale(now time.Time) bool {
	return r.Age(now) > time.Duration(r.TTLDays)*24*time.Hour
}
