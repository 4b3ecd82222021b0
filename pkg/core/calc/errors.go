package calc

import (
	"errors"
	"fmt"
)

// FinancialDataError reports that a required concept (operating
// income, total assets, positive stockholders' equity) is permanently
// unavailable or structurally invalid. It is terminal for the ticker
// at this time; an immediate retry will see the same filings.
type FinancialDataError struct {
	Reason string
}

func (e *FinancialDataError) Error() string {
	return "financial data error: " + e.Reason
}

// InsufficientDataError reports fewer usable fiscal years than the
// analysis minimum. The caller may retry later once more filings
// exist; the engine itself never retries.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: only %d usable fiscal years (need at least %d)", e.Have, e.Need)
}

// IsInsufficientData reports whether err is, or wraps, an
// InsufficientDataError.
func IsInsufficientData(err error) bool {
	var target *InsufficientDataError
	return errors.As(err, &target)
}

// IsFinancialDataError reports whether err belongs to the extraction
// error taxonomy. InsufficientDataError counts: it specializes the
// broader financial-data failure.
func IsFinancialDataError(err error) bool {
	var fde *FinancialDataError
	return errors.As(err, &fde) || IsInsufficientData(err)
}
