package calc

import (
	"fmt"
	"math"

	"capital_metrics/pkg/core/statements"
)

// CAPM defaults. Each is independently overridable by the caller.
const (
	DefaultRiskFreeRate      = 0.040 // 10-year Treasury
	DefaultMarketRiskPremium = 0.055
	DefaultBeta              = 1.0

	DefaultCostOfDebt = 0.05
	MaxCostOfDebt     = 0.20
)

// CAPMOverrides carries caller overrides for the cost-of-equity
// inputs. A nil field keeps the stated default.
type CAPMOverrides struct {
	RiskFreeRate      *float64
	MarketRiskPremium *float64
	Beta              *float64
}

// ExtractWACCComponents derives every WACC input from the most recent
// fiscal year in the index.
//
//	Cost of Equity: Re = Rf + beta x MRP
//	Cost of Debt:   Rd = |Interest Expense| / Total Debt
//	Weights:        E/V and D/V from book equity and total debt
//
// Cost of debt falls back to DefaultCostOfDebt when total debt is zero
// or the ratio leaves [0, MaxCostOfDebt]. The effective tax rate is
// computed independently here, not reused from the ROIC stage.
//
// Returns FinancialDataError when stockholders' equity is absent or
// non-positive; negative equity is financial distress, not a numeric
// edge case to clamp.
func ExtractWACCComponents(idx *statements.Index, overrides CAPMOverrides) (WACCComponents, error) {
	if idx == nil || idx.Len() == 0 {
		return WACCComponents{}, &FinancialDataError{Reason: "statement index has no fiscal years"}
	}
	years := idx.Years()
	year := years[len(years)-1]

	shortTermDebt, _ := idx.Resolve(year, statements.DebtCurrentConcepts)
	longTermDebt, _ := idx.Resolve(year, statements.LongTermDebtConcepts)
	totalDebt := shortTermDebt + longTermDebt

	costOfDebt := DefaultCostOfDebt
	if interestExpense, ok := idx.Resolve(year, statements.InterestExpenseConcepts); ok && totalDebt > 0 {
		// Interest expense is commonly tagged negative in filings.
		rd := math.Abs(interestExpense) / totalDebt
		if rd <= MaxCostOfDebt {
			costOfDebt = rd
		}
	}

	totalEquity, ok := idx.Resolve(year, statements.StockholdersEquityConcepts)
	if !ok {
		return WACCComponents{}, &FinancialDataError{
			Reason: fmt.Sprintf("stockholders equity unavailable for fiscal %d", year),
		}
	}
	if totalEquity <= 0 {
		return WACCComponents{}, &FinancialDataError{
			Reason: fmt.Sprintf("non-positive stockholders equity (%.0f) for fiscal %d", totalEquity, year),
		}
	}

	taxRate := effectiveTaxRate(idx, year)

	totalCapital := totalEquity + totalDebt
	equityRatio := totalEquity / totalCapital
	debtRatio := totalDebt / totalCapital

	rf := DefaultRiskFreeRate
	if overrides.RiskFreeRate != nil {
		rf = *overrides.RiskFreeRate
	}
	mrp := DefaultMarketRiskPremium
	if overrides.MarketRiskPremium != nil {
		mrp = *overrides.MarketRiskPremium
	}
	beta := DefaultBeta
	if overrides.Beta != nil {
		beta = *overrides.Beta
	}

	return WACCComponents{
		CostOfEquity:      rf + beta*mrp,
		CostOfDebt:        costOfDebt,
		TaxRate:           taxRate,
		DebtRatio:         debtRatio,
		EquityRatio:       equityRatio,
		TotalDebt:         totalDebt,
		TotalEquity:       totalEquity,
		RiskFreeRate:      rf,
		Beta:              beta,
		MarketRiskPremium: mrp,
	}, nil
}

// CalculateWACC combines the components:
//
//	WACC = E/V x Re + D/V x Rd x (1 - Tc)
//
// With sensitivity enabled, the risk-free rate is shifted by +/-100bps
// holding every other component fixed, labeled "pessimistic" (higher
// Rf) and "optimistic" (lower Rf, floored at zero) alongside "base".
func CalculateWACC(components WACCComponents, sensitivity bool) WACCResult {
	baseline := waccAtRiskFree(components, components.RiskFreeRate)

	scenarios := map[string]float64{"base": baseline}
	if sensitivity {
		scenarios["pessimistic"] = waccAtRiskFree(components, components.RiskFreeRate+0.01)
		scenarios["optimistic"] = waccAtRiskFree(components, math.Max(0, components.RiskFreeRate-0.01))
	}

	return WACCResult{
		BaselineWACC: baseline,
		Scenarios:    scenarios,
		Components:   components,
	}
}

func waccAtRiskFree(c WACCComponents, rf float64) float64 {
	re := rf + c.Beta*c.MarketRiskPremium
	return c.EquityRatio*re + c.DebtRatio*c.CostOfDebt*(1-c.TaxRate)
}
