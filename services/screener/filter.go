package screener

import (
	"strings"

	"equilibrio-api/models"
)

// MatchesFilter reports whether a single stock satisfies every active
// constraint in the filter. It is pure and total: no combination of
// well-typed inputs can fail, and a degenerate numeric range (min above max)
// simply matches nothing.
func MatchesFilter(stock models.StockData, filter models.StockFilter) bool {
	if !matchesSearch(stock, filter.SearchTerm) {
		return false
	}
	if !memberOf(stock.Sector, filter.Sectors) {
		return false
	}
	if stock.RSI < filter.RSIMin || stock.RSI > filter.RSIMax {
		return false
	}
	if stock.Price < filter.PriceMin || stock.Price > filter.PriceMax {
		return false
	}
	if !memberOf(stock.VolumeProfile, filter.VolumeProfile) {
		return false
	}
	if !memberOf(stock.Signal, filter.Signals) {
		return false
	}
	if !memberOf(stock.Trend, filter.Trend) {
		return false
	}
	if !memberOf(EquilibriumZone(stock.PriceToEquilibrium), filter.EquilibriumZone) {
		return false
	}
	return true
}

// ApplyFilter returns the stocks matching the filter, preserving their
// relative order. An empty universe filters to an empty slice.
func ApplyFilter(stocks []models.StockData, filter models.StockFilter) []models.StockData {
	filtered := make([]models.StockData, 0, len(stocks))
	for _, stock := range stocks {
		if MatchesFilter(stock, filter) {
			filtered = append(filtered, stock)
		}
	}
	return filtered
}

// matchesSearch does a case-insensitive substring match against the symbol
// or the display name. An empty term matches everything.
func matchesSearch(stock models.StockData, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(stock.Symbol), needle) ||
		strings.Contains(strings.ToLower(stock.Name), needle)
}

// memberOf reports whether value is in the selected set. An empty set means
// the dimension is unconstrained.
func memberOf(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if value == s {
			return true
		}
	}
	return false
}
