// Package calc provides the deterministic metric layer: ROIC history,
// WACC via CAPM, and the ROIC-WACC spread with trend and durability
// classification. All functions are pure; all amounts are float64 in
// the filing's reporting currency, all rates are decimal fractions.
package calc

// =============================================================================
// ROIC
// =============================================================================

// ROICRecord holds one fiscal year of the capital-efficiency series.
type ROICRecord struct {
	FiscalYear      int     `json:"fiscal_year"`
	NOPAT           float64 `json:"nopat"`
	InvestedCapital float64 `json:"invested_capital"`
	ROIC            float64 `json:"roic"`
}

// ROICHistory is a chronological ROIC series. A valid history carries
// at least MinValidYears records.
type ROICHistory []ROICRecord

// Years returns the fiscal years of the series, in order.
func (h ROICHistory) Years() []int {
	years := make([]int, len(h))
	for i, r := range h {
		years[i] = r.FiscalYear
	}
	return years
}

// Values returns the ROIC values of the series, in order.
func (h ROICHistory) Values() []float64 {
	values := make([]float64, len(h))
	for i, r := range h {
		values[i] = r.ROIC
	}
	return values
}

// Latest returns the most recent record. It panics on an empty
// history; extraction guarantees MinValidYears records.
func (h ROICHistory) Latest() ROICRecord {
	return h[len(h)-1]
}

// =============================================================================
// WACC
// =============================================================================

// WACCComponents carries every input of the WACC formula.
// DebtRatio + EquityRatio is always 1 within floating tolerance.
type WACCComponents struct {
	CostOfEquity      float64 `json:"cost_of_equity"`
	CostOfDebt        float64 `json:"cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtRatio         float64 `json:"debt_ratio"`   // D/V
	EquityRatio       float64 `json:"equity_ratio"` // E/V
	TotalDebt         float64 `json:"total_debt"`
	TotalEquity       float64 `json:"total_equity"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	Beta              float64 `json:"beta"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
}

// WACCResult holds the baseline WACC plus optional sensitivity
// scenarios ("base" is always present; "optimistic"/"pessimistic"
// appear when sensitivity is requested).
type WACCResult struct {
	BaselineWACC float64            `json:"baseline_wacc"`
	Scenarios    map[string]float64 `json:"scenarios"`
	Components   WACCComponents     `json:"components_breakdown"`
}

// =============================================================================
// SPREAD
// =============================================================================

// Trend classifications for the spread series.
const (
	TrendImproving     = "improving"
	TrendDeteriorating = "deteriorating"
	TrendStable        = "stable"
)

// Durability classifications for the current spread.
const (
	DurabilityStrong    = "strong"
	DurabilityUncertain = "uncertain"
	DurabilityWeak      = "weak"
)

// SpreadRecord is one fiscal year of the ROIC-WACC spread. WACC is the
// current-point estimate held constant across years.
type SpreadRecord struct {
	FiscalYear int     `json:"fiscal_year"`
	ROIC       float64 `json:"roic"`
	WACC       float64 `json:"wacc"`
	Spread     float64 `json:"spread"`
}

// SpreadResult is the full computed bundle for a ticker.
type SpreadResult struct {
	CurrentSpread        float64        `json:"current_spread"`
	SpreadHistory        []SpreadRecord `json:"spread_history"`
	SpreadTrend          string         `json:"spread_trend"`
	DurabilityAssessment string         `json:"durability_assessment"`
	ROICHistory          ROICHistory    `json:"roic_history"`
	WACCResult           WACCResult     `json:"wacc_result"`
}
