package models

import (
	"time"
)

// Default filter bounds. A request carrying the full range on a numeric
// dimension is treated as unconstrained on that dimension.
const (
	RSIFilterMin   = 0
	RSIFilterMax   = 100
	PriceFilterMin = 0
	PriceFilterMax = 10000

	DefaultPageSize  = 50
	DefaultSortField = "symbol"
	DefaultSortOrder = "asc"
)

// StockData is an immutable snapshot of one instrument as supplied by the
// market data provider. Indicator values arrive precomputed; the screener
// never recalculates them.
type StockData struct {
	Symbol                 string    `json:"symbol"`
	Name                   string    `json:"name"`
	Price                  float64   `json:"price"`
	Change                 float64   `json:"change"`
	ChangePercent          float64   `json:"changePercent"`
	Volume                 int64     `json:"volume"`
	Sector                 string    `json:"sector"`
	Industry               string    `json:"industry"`
	MarketCap              float64   `json:"marketCap"`
	RSI                    float64   `json:"rsi"`
	StochRSI               float64   `json:"stochRsi"`
	HistoricRSIAvg         float64   `json:"historicRsiAvg"`
	SMA50                  float64   `json:"sma50"`
	SMA200                 float64   `json:"sma200"`
	EMA20                  float64   `json:"ema20"`
	MACD                   float64   `json:"macd"`
	MACDSignal             float64   `json:"macdSignal"`
	MACDHistogram          float64   `json:"macdHistogram"`
	EquilibriumLevel       float64   `json:"equilibriumLevel"`
	PriceToEquilibrium     float64   `json:"priceToEquilibrium"`
	Trend                  string    `json:"trend"`         // "bullish", "bearish", "neutral"
	Signal                 string    `json:"signal"`        // "buy", "sell", "hold"
	VolumeProfile          string    `json:"volumeProfile"` // "high", "medium", "low"
	DistanceFrom52WeekHigh float64   `json:"distanceFrom52WeekHigh"`
	DistanceFrom52WeekLow  float64   `json:"distanceFrom52WeekLow"`
	LastUpdated            time.Time `json:"lastUpdated"`
}

// StockFilter is the user's current constraint set. An empty slice on any
// multi-select dimension means "no constraint", not "match nothing".
type StockFilter struct {
	SearchTerm      string   `json:"searchTerm"`
	Sectors         []string `json:"sectors"`
	RSIMin          float64  `json:"rsiMin"`
	RSIMax          float64  `json:"rsiMax"`
	PriceMin        float64  `json:"priceMin"`
	PriceMax        float64  `json:"priceMax"`
	VolumeProfile   []string `json:"volumeProfile"`
	Signals         []string `json:"signals"`
	Trend           []string `json:"trend"`
	EquilibriumZone []string `json:"equilibriumZone"`
}

// DefaultStockFilter returns the unconstrained filter: empty search, full
// numeric ranges, no multi-select values.
func DefaultStockFilter() StockFilter {
	return StockFilter{
		Sectors:         []string{},
		RSIMin:          RSIFilterMin,
		RSIMax:          RSIFilterMax,
		PriceMin:        PriceFilterMin,
		PriceMax:        PriceFilterMax,
		VolumeProfile:   []string{},
		Signals:         []string{},
		Trend:           []string{},
		EquilibriumZone: []string{},
	}
}

// StockListRequest is the query model: filter criteria plus sorting and
// pagination. Filter fields are flattened for query parameter binding;
// multi-valued fields are parsed from comma-separated params by the handler.
type StockListRequest struct {
	SearchTerm      string   `form:"searchTerm" json:"searchTerm"`
	Sectors         []string `form:"-" json:"sectors"`
	RSIMin          float64  `form:"rsiMin" json:"rsiMin"`
	RSIMax          float64  `form:"rsiMax" json:"rsiMax"`
	PriceMin        float64  `form:"priceMin" json:"priceMin"`
	PriceMax        float64  `form:"priceMax" json:"priceMax"`
	VolumeProfile   []string `form:"-" json:"volumeProfile"`
	Signals         []string `form:"-" json:"signals"`
	Trend           []string `form:"-" json:"trend"`
	EquilibriumZone []string `form:"-" json:"equilibriumZone"`

	SortField string `form:"sortField" json:"sortField"`
	SortOrder string `form:"sortOrder" json:"sortOrder"` // "asc" or "desc"
	Page      int    `form:"page" json:"page"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
}

// Normalize fills in the documented defaults for missing request fields.
func (r *StockListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.SortField == "" {
		r.SortField = DefaultSortField
	}
	if r.SortOrder != "desc" {
		r.SortOrder = DefaultSortOrder
	}
	// Both bounds zero means the client sent no range at all.
	if r.RSIMin == 0 && r.RSIMax == 0 {
		r.RSIMax = RSIFilterMax
	}
	if r.PriceMin == 0 && r.PriceMax == 0 {
		r.PriceMax = PriceFilterMax
	}
}

// Filter extracts the filter portion of the request.
func (r *StockListRequest) Filter() StockFilter {
	return StockFilter{
		SearchTerm:      r.SearchTerm,
		Sectors:         r.Sectors,
		RSIMin:          r.RSIMin,
		RSIMax:          r.RSIMax,
		PriceMin:        r.PriceMin,
		PriceMax:        r.PriceMax,
		VolumeProfile:   r.VolumeProfile,
		Signals:         r.Signals,
		Trend:           r.Trend,
		EquilibriumZone: r.EquilibriumZone,
	}
}

// StockView is a StockData decorated with the derived classification labels
// shown in the table.
type StockView struct {
	StockData
	EquilibriumZone string `json:"equilibriumZone"`
	RSIZone         string `json:"rsiZone"`
}

// StockListResponse is one page of the filtered, sorted universe together
// with the counts a client needs to render pagination controls.
type StockListResponse struct {
	Stocks     []StockView `json:"stocks"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
