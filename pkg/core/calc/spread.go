package calc

// Classification thresholds for the spread series.
const (
	trendWindow         = 3
	trendSlopeThreshold = 0.02 // +/- 2pp over the window

	strongSpreadFloor = 0.05
	weakSpreadCeiling = 0.03
)

// CalculateSpread combines a ROIC history with a current-point WACC
// estimate into a per-year spread series, a trend, and a durability
// classification.
//
// Trend: slope = (latest - earliest) / 2 over the last trendWindow
// years; improving above +2pp, deteriorating below -2pp, else stable.
//
// Durability, evaluated in order because the predicates overlap when
// the spread is negative:
//   - strong:    current spread > 5% and trend improving
//   - weak:      current spread < 0%, or deteriorating below 3%
//   - uncertain: everything else
func CalculateSpread(history ROICHistory, wacc WACCResult) (SpreadResult, error) {
	if len(history) < MinValidYears {
		return SpreadResult{}, &InsufficientDataError{Have: len(history), Need: MinValidYears}
	}

	records := make([]SpreadRecord, len(history))
	for i, r := range history {
		records[i] = SpreadRecord{
			FiscalYear: r.FiscalYear,
			ROIC:       r.ROIC,
			WACC:       wacc.BaselineWACC,
			Spread:     r.ROIC - wacc.BaselineWACC,
		}
	}
	currentSpread := records[len(records)-1].Spread

	trend := TrendStable
	if len(records) >= trendWindow {
		recent := records[len(records)-trendWindow:]
		slope := (recent[len(recent)-1].Spread - recent[0].Spread) / 2
		switch {
		case slope > trendSlopeThreshold:
			trend = TrendImproving
		case slope < -trendSlopeThreshold:
			trend = TrendDeteriorating
		}
	}

	durability := DurabilityUncertain
	switch {
	case currentSpread > strongSpreadFloor && trend == TrendImproving:
		durability = DurabilityStrong
	case currentSpread < 0 || (trend == TrendDeteriorating && currentSpread < weakSpreadCeiling):
		durability = DurabilityWeak
	}

	return SpreadResult{
		CurrentSpread:        currentSpread,
		SpreadHistory:        records,
		SpreadTrend:          trend,
		DurabilityAssessment: durability,
		ROICHistory:          history,
		WACCResult:           wacc,
	}, nil
}
