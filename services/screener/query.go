package screener

import (
	"fmt"

	"equilibrio-api/models"
)

// Query edits never mutate in place: every user action produces a fresh
// request value, so a filter/sort pass always sees one consistent query.

// WithSort returns the request after a sort-header click. Clicking the
// active field toggles direction; clicking a different field switches to it
// with ascending order reset.
func WithSort(req models.StockListRequest, field string) models.StockListRequest {
	next := req
	if req.SortField == field {
		if req.SortOrder == "asc" {
			next.SortOrder = "desc"
		} else {
			next.SortOrder = "asc"
		}
		return next
	}
	next.SortField = field
	next.SortOrder = "asc"
	return next
}

// WithSearch returns the request with a new search term. A changed term
// invalidates the user's position in the old result set, so the page resets
// to 1.
func WithSearch(req models.StockListRequest, term string) models.StockListRequest {
	next := req
	next.SearchTerm = term
	if term != req.SearchTerm {
		next.Page = 1
	}
	return next
}

// WithPage returns the request positioned on the given page.
func WithPage(req models.StockListRequest, page int) models.StockListRequest {
	next := req
	if page < 1 {
		page = 1
	}
	next.Page = page
	return next
}

// WithFilter returns the request with its whole filter portion replaced and
// the page reset to 1. Used when loading a preset; sorting is left as is.
func WithFilter(req models.StockListRequest, filter models.StockFilter) models.StockListRequest {
	next := req
	next.SearchTerm = filter.SearchTerm
	next.Sectors = filter.Sectors
	next.RSIMin = filter.RSIMin
	next.RSIMax = filter.RSIMax
	next.PriceMin = filter.PriceMin
	next.PriceMax = filter.PriceMax
	next.VolumeProfile = filter.VolumeProfile
	next.Signals = filter.Signals
	next.Trend = filter.Trend
	next.EquilibriumZone = filter.EquilibriumZone
	next.Page = 1
	return next
}

// FilterField names one updatable filter dimension. The set is closed so a
// single-field update can be dispatched exhaustively instead of through
// untyped key access.
type FilterField string

const (
	FieldSearchTerm      FilterField = "searchTerm"
	FieldSectors         FilterField = "sectors"
	FieldRSIMin          FilterField = "rsiMin"
	FieldRSIMax          FilterField = "rsiMax"
	FieldPriceMin        FilterField = "priceMin"
	FieldPriceMax        FilterField = "priceMax"
	FieldVolumeProfile   FilterField = "volumeProfile"
	FieldSignals         FilterField = "signals"
	FieldTrend           FilterField = "trend"
	FieldEquilibriumZone FilterField = "equilibriumZone"
)

// FilterUpdate is a tagged "set field X to value V" operation. Exactly one
// of Text, Number or Values is meaningful, determined by the field.
type FilterUpdate struct {
	Field  FilterField `json:"field"`
	Text   string      `json:"text,omitempty"`
	Number float64     `json:"number,omitempty"`
	Values []string    `json:"values,omitempty"`
}

// ApplyUpdate returns the filter with one field replaced. Unknown fields are
// rejected rather than silently ignored.
func ApplyUpdate(filter models.StockFilter, update FilterUpdate) (models.StockFilter, error) {
	next := filter
	switch update.Field {
	case FieldSearchTerm:
		next.SearchTerm = update.Text
	case FieldSectors:
		next.Sectors = update.Values
	case FieldRSIMin:
		next.RSIMin = update.Number
	case FieldRSIMax:
		next.RSIMax = update.Number
	case FieldPriceMin:
		next.PriceMin = update.Number
	case FieldPriceMax:
		next.PriceMax = update.Number
	case FieldVolumeProfile:
		next.VolumeProfile = update.Values
	case FieldSignals:
		next.Signals = update.Values
	case FieldTrend:
		next.Trend = update.Values
	case FieldEquilibriumZone:
		next.EquilibriumZone = update.Values
	default:
		return filter, fmt.Errorf("unknown filter field %q", update.Field)
	}
	return next, nil
}
