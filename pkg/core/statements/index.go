// Package statements models the normalized multi-year statement index
// supplied by the filing-retrieval layer. The index is a sparse table
// keyed by (fiscal year, standardized concept name); absence is
// meaningful and distinct from a reported zero.
package statements

import "sort"

// Index holds per-year concept values for a single company.
// It is read-only from the engine's perspective once populated.
type Index struct {
	years map[int]map[string]float64
}

// NewIndex creates an empty statement index.
func NewIndex() *Index {
	return &Index{years: make(map[int]map[string]float64)}
}

// Set records a concept value for a fiscal year.
func (ix *Index) Set(year int, concept string, value float64) {
	if ix.years == nil {
		ix.years = make(map[int]map[string]float64)
	}
	concepts, ok := ix.years[year]
	if !ok {
		concepts = make(map[string]float64)
		ix.years[year] = concepts
	}
	concepts[concept] = value
}

// Resolve tries each candidate concept name in order for the given
// fiscal year and returns the first present value. The second return
// is false when no candidate matches; callers own the fallback policy.
func (ix *Index) Resolve(year int, candidates []string) (float64, bool) {
	concepts, ok := ix.years[year]
	if !ok {
		return 0, false
	}
	for _, concept := range candidates {
		if v, ok := concepts[concept]; ok {
			return v, true
		}
	}
	return 0, false
}

// Years returns the fiscal years present in the index, ascending.
func (ix *Index) Years() []int {
	years := make([]int, 0, len(ix.years))
	for y := range ix.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// HasYear reports whether any concept is recorded for the fiscal year.
func (ix *Index) HasYear(year int) bool {
	_, ok := ix.years[year]
	return ok
}

// Len returns the number of fiscal years in the index.
func (ix *Index) Len() int {
	return len(ix.years)
}
