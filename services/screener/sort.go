package screener

import (
	"sort"

	"equilibrio-api/models"
)

// SortableFields is the closed set of columns the table can be ordered by.
var SortableFields = []string{
	"symbol", "name", "sector", "price", "changePercent", "volume",
	"marketCap", "rsi", "priceToEquilibrium", "trend", "signal",
}

// IsSortableField reports whether the table can be ordered by field.
func IsSortableField(field string) bool {
	for _, f := range SortableFields {
		if f == field {
			return true
		}
	}
	return false
}

// ApplySorting orders stocks in place by the given field and direction.
// Unknown fields fall back to symbol. The sort is stable: stocks comparing
// equal on the key keep their relative order from the filtered set.
func ApplySorting(stocks []models.StockData, sortField, sortOrder string) {
	less := lessFunc(sortField)
	desc := sortOrder == "desc"
	sort.SliceStable(stocks, func(i, j int) bool {
		if desc {
			return less(stocks[j], stocks[i])
		}
		return less(stocks[i], stocks[j])
	})
}

// lessFunc resolves a sort field name to an ascending comparator. String
// columns compare case-sensitively; numeric columns compare numerically.
func lessFunc(sortField string) func(a, b models.StockData) bool {
	switch sortField {
	case "name":
		return func(a, b models.StockData) bool { return a.Name < b.Name }
	case "sector":
		return func(a, b models.StockData) bool { return a.Sector < b.Sector }
	case "price":
		return func(a, b models.StockData) bool { return a.Price < b.Price }
	case "changePercent":
		return func(a, b models.StockData) bool { return a.ChangePercent < b.ChangePercent }
	case "volume":
		return func(a, b models.StockData) bool { return a.Volume < b.Volume }
	case "marketCap":
		return func(a, b models.StockData) bool { return a.MarketCap < b.MarketCap }
	case "rsi":
		return func(a, b models.StockData) bool { return a.RSI < b.RSI }
	case "priceToEquilibrium":
		return func(a, b models.StockData) bool { return a.PriceToEquilibrium < b.PriceToEquilibrium }
	case "trend":
		return func(a, b models.StockData) bool { return a.Trend < b.Trend }
	case "signal":
		return func(a, b models.StockData) bool { return a.Signal < b.Signal }
	default:
		return func(a, b models.StockData) bool { return a.Symbol < b.Symbol }
	}
}

// Paginate slices one page out of the sorted set. Page and pageSize are both
// 1-based/positive; a page past the end yields an empty slice, never an
// error.
func Paginate(stocks []models.StockData, page, pageSize int) []models.StockData {
	start := (page - 1) * pageSize
	if start >= len(stocks) {
		return []models.StockData{}
	}
	end := start + pageSize
	if end > len(stocks) {
		end = len(stocks)
	}
	return stocks[start:end]
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}
