// Package screener implements the filter-and-classification engine: the
// rules turning raw indicator values into categorical zones, the composition
// of filter predicates into one query, and the deterministic sort/paginate
// contract applied to the filtered result. Everything in this package is
// pure and operates on in-memory snapshots supplied by the caller.
package screener

import (
	"equilibrio-api/models"
)

// Screen runs the full derive -> filter -> sort -> paginate pipeline over an
// instrument snapshot and returns one decorated page. The request must
// already be normalized.
func Screen(stocks []models.StockData, req models.StockListRequest) models.StockListResponse {
	filtered := ApplyFilter(stocks, req.Filter())
	ApplySorting(filtered, req.SortField, req.SortOrder)

	total := len(filtered)
	page := Paginate(filtered, req.Page, req.PageSize)

	return models.StockListResponse{
		Stocks:     Decorate(page),
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: TotalPages(total, req.PageSize),
	}
}

// Decorate annotates each stock with its derived classification labels.
func Decorate(stocks []models.StockData) []models.StockView {
	views := make([]models.StockView, len(stocks))
	for i, stock := range stocks {
		views[i] = models.StockView{
			StockData:       stock,
			EquilibriumZone: EquilibriumZone(stock.PriceToEquilibrium),
			RSIZone:         RSIZone(stock.RSI),
		}
	}
	return views
}
