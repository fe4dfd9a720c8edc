// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

// radiusBands maps dine_preference upper bounds to search radii in meters.
// Preferences above the last band search by distance rank instead.
var radiusBands = []struct {
	maxPreference float64
	meters        int
}{
	{10, 500},
	{30, 1000},
	{50, 1609},
	{70, 3218},
	{90, 8046},
}

// Radius maps a dine_preference slider value to a search radius in meters.
// It returns nil for values above 90 (and for values that compare false
// against every band, such as NaN), which selects rank-by-distance search.
func Radius(dinePreference float64) *int {
	for _, band := range radiusBands {
		if dinePreference <= band.maxPreference {
			meters := band.meters
			return &meters
		}
	}
	return nil
}

// PriceSet is the set of allowed places API price levels (0 to 4).
type PriceSet []int

// Contains reports whether level is allowed.
func (p PriceSet) Contains(level int) bool {
	for _, l := range p {
		if l == level {
			return true
		}
	}
	return false
}

// PriceLevels maps a budget_level slider value to the allowed price levels.
func PriceLevels(budgetLevel float64) PriceSet {
	switch {
	case budgetLevel <= 25:
		return PriceSet{0, 1}
	case budgetLevel <= 50:
		return PriceSet{2}
	case budgetLevel <= 75:
		return PriceSet{3}
	default:
		return PriceSet{4}
	}
}
