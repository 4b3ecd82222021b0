package calc

import (
	"math"

	"capital_metrics/pkg/core/statements"
)

// Defaults and bounds for the numeric parameter fallbacks. Structural
// absence of data is never defaulted; only these rates are.
const (
	DefaultTaxRate = 0.21 // US federal statutory rate
	MaxTaxRate     = 0.50

	MinValidYears = 3
)

// ExtractROICHistory derives NOPAT, Invested Capital, and ROIC for the
// most recent `years` fiscal years in the index.
//
//	NOPAT            = Operating Income x (1 - Tax Rate)
//	Invested Capital = Total Assets - Cash - Non-Interest Liabilities
//	ROIC             = NOPAT / Invested Capital
//
// Non-interest liabilities are approximated as current liabilities
// minus short-term debt, floored at zero. Years missing operating
// income or total assets, or with non-positive invested capital, are
// excluded rather than zero-filled.
//
// Returns InsufficientDataError when fewer than MinValidYears usable
// years remain, and FinancialDataError when operating income or total
// assets cannot be resolved for any requested year at all.
func ExtractROICHistory(idx *statements.Index, years int) (ROICHistory, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, &FinancialDataError{Reason: "statement index has no fiscal years"}
	}

	window := idx.Years()
	if years > 0 && len(window) > years {
		window = window[len(window)-years:]
	}

	var (
		history         ROICHistory
		sawOperatingInc bool
		sawTotalAssets  bool
	)

	for _, year := range window {
		operatingIncome, okOI := idx.Resolve(year, statements.OperatingIncomeConcepts)
		totalAssets, okTA := idx.Resolve(year, statements.TotalAssetsConcepts)
		if okOI {
			sawOperatingInc = true
		}
		if okTA {
			sawTotalAssets = true
		}
		if !okOI || !okTA {
			continue
		}

		taxRate := effectiveTaxRate(idx, year)
		nopat := operatingIncome * (1 - taxRate)

		cash, _ := idx.Resolve(year, statements.CashConcepts)
		currentLiabilities, _ := idx.Resolve(year, statements.CurrentLiabilitiesConcepts)
		shortTermDebt, _ := idx.Resolve(year, statements.ShortTermDebtConcepts)

		nonInterestLiabilities := math.Max(0, currentLiabilities-shortTermDebt)
		investedCapital := totalAssets - cash - nonInterestLiabilities
		if investedCapital <= 0 {
			continue
		}

		history = append(history, ROICRecord{
			FiscalYear:      year,
			NOPAT:           nopat,
			InvestedCapital: investedCapital,
			ROIC:            nopat / investedCapital,
		})
	}

	if !sawOperatingInc {
		return nil, &FinancialDataError{Reason: "operating income unavailable for all requested years"}
	}
	if !sawTotalAssets {
		return nil, &FinancialDataError{Reason: "total assets unavailable for all requested years"}
	}
	if len(history) < MinValidYears {
		return nil, &InsufficientDataError{Have: len(history), Need: MinValidYears}
	}
	return history, nil
}

// effectiveTaxRate derives tax expense / pre-tax income for the fiscal
// year. The statutory default applies when either input is absent,
// pre-tax income is non-positive, or the ratio leaves [0, MaxTaxRate].
func effectiveTaxRate(idx *statements.Index, year int) float64 {
	taxExpense, okTax := idx.Resolve(year, statements.IncomeTaxExpenseConcepts)
	pretaxIncome, okPre := idx.Resolve(year, statements.PretaxIncomeConcepts)
	if !okTax || !okPre || pretaxIncome <= 0 {
		return DefaultTaxRate
	}
	rate := taxExpense / pretaxIncome
	if rate < 0 || rate > MaxTaxRate {
		return DefaultTaxRate
	}
	return rate
}
