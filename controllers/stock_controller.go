package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"equilibrio-api/models"
	"equilibrio-api/services/marketdata"
	"equilibrio-api/services/screener"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// StockController handles screener queries against the market snapshot.
type StockController struct {
	market *marketdata.Service
}

// NewStockController creates a new stock controller.
func NewStockController(market *marketdata.Service) *StockController {
	return &StockController{market: market}
}

// csvList splits a comma-separated query parameter into trimmed values.
// Empty parameters yield an empty slice, which the filter treats as
// unconstrained.
func csvList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func parseListRequest(c *gin.Context) (models.StockListRequest, error) {
	var req models.StockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	req.Sectors = csvList(c.Query("sectors"))
	req.VolumeProfile = csvList(c.Query("volumeProfile"))
	req.Signals = csvList(c.Query("signals"))
	req.Trend = csvList(c.Query("trend"))
	req.EquilibriumZone = csvList(c.Query("equilibriumZone"))
	req.Normalize()
	return req, nil
}

// GetStocks returns one screened page of the universe
// GET /api/stocks
func (sc *StockController) GetStocks(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if !screener.IsSortableField(req.SortField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown sort field: %s", req.SortField)})
		return
	}

	resp, err := sc.market.Screen(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Market data is temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStock returns one instrument by symbol
// GET /api/stocks/:symbol
func (sc *StockController) GetStock(c *gin.Context) {
	symbol := c.Param("symbol")

	stock, err := sc.market.GetStock(c.Request.Context(), symbol)
	if err != nil {
		var notFound marketdata.ErrSymbolNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Market data is temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, stock)
}

// GetSectors returns the sector taxonomy
// GET /api/sectors
func (sc *StockController) GetSectors(c *gin.Context) {
	sectors, err := sc.market.Sectors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Market data is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

// ExportStocks streams the full filtered, sorted set as CSV. Pagination
// parameters are ignored: the export always covers every matching row.
// GET /api/stocks/export
func (sc *StockController) ExportStocks(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if !screener.IsSortableField(req.SortField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown sort field: %s", req.SortField)})
		return
	}

	stocks, err := sc.market.Filtered(c.Request.Context(), req.Filter(), req.SortField, req.SortOrder)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Market data is temporarily unavailable"})
		return
	}

	filename := fmt.Sprintf("equilibrio_screener_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Symbol", "Name", "Price", "Change%", "RSI", "Trend", "Signal", "Equilibrium", "Sector"})
	for _, stock := range stocks {
		_ = w.Write([]string{
			stock.Symbol,
			stock.Name,
			decimal.NewFromFloat(stock.Price).Round(2).String(),
			decimal.NewFromFloat(stock.ChangePercent).Round(2).String(),
			decimal.NewFromFloat(stock.RSI).Round(1).String(),
			stock.Trend,
			stock.Signal,
			screener.EquilibriumZone(stock.PriceToEquilibrium),
			stock.Sector,
		})
	}
	w.Flush()
}

// RefreshData discards every cached view and refetches the snapshot
// POST /api/refresh
func (sc *StockController) RefreshData(c *gin.Context) {
	if err := sc.market.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to refresh market data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Market data refreshed"})
}
