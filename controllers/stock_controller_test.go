package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"equilibrio-api/models"
	"equilibrio-api/services/marketdata"

	"github.com/gin-gonic/gin"
)

type stubProvider struct {
	stocks []models.StockData
}

func (p *stubProvider) FetchUniverse(ctx context.Context) ([]models.StockData, error) {
	return p.stocks, nil
}

func (p *stubProvider) FetchSectors(ctx context.Context) ([]string, error) {
	return []string{"Technology", "Energy"}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	provider := &stubProvider{stocks: []models.StockData{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 90, PriceToEquilibrium: -10, RSI: 25, Sector: "Technology", Trend: "neutral", Signal: "buy", VolumeProfile: "high"},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 300, PriceToEquilibrium: 2, RSI: 55, Sector: "Technology", Trend: "bullish", Signal: "hold", VolumeProfile: "medium"},
		{Symbol: "XOM", Name: "Exxon Mobil", Price: 110, PriceToEquilibrium: 10, RSI: 75, Sector: "Energy", Trend: "bearish", Signal: "sell", VolumeProfile: "low"},
	}}
	market := marketdata.NewService(provider, nil)
	sc := NewStockController(market)

	router := gin.New()
	router.GET("/api/stocks", sc.GetStocks)
	router.GET("/api/stocks/export", sc.ExportStocks)
	router.GET("/api/stocks/:symbol", sc.GetStock)
	router.GET("/api/sectors", sc.GetSectors)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetStocksFiltersAndPaginates(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/stocks?sectors=Technology&sortField=price&sortOrder=desc")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.StockListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Stocks) != 2 {
		t.Fatalf("expected 2 technology stocks, got %+v", resp)
	}
	if resp.Stocks[0].Symbol != "MSFT" {
		t.Errorf("price desc should put MSFT first, got %s", resp.Stocks[0].Symbol)
	}
	if resp.Stocks[1].EquilibriumZone != "discount" || resp.Stocks[1].RSIZone != "oversold" {
		t.Errorf("classification labels missing: %+v", resp.Stocks[1])
	}
}

func TestGetStocksRejectsUnknownSortField(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/stocks?sortField=bogus")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetStocksEmptyFilterParamsAreUnconstrained(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/stocks?sectors=&signals=")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.StockListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("empty multi-select params must match everything, got total %d", resp.Total)
	}
}

func TestGetStockBySymbol(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/stocks/aapl")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stock models.StockView
	if err := json.Unmarshal(w.Body.Bytes(), &stock); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stock.Symbol != "AAPL" {
		t.Errorf("got %s", stock.Symbol)
	}

	if w := doRequest(t, router, "/api/stocks/NOPE"); w.Code != http.StatusNotFound {
		t.Errorf("unknown symbol: status = %d, want 404", w.Code)
	}
}

func TestExportStocksAppliesFilter(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/stocks/export?equilibriumZone=discount")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "Symbol,Name,Price") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AAPL,") || !strings.Contains(lines[1], "discount") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestExportStocksRejectsUnknownSortField(t *testing.T) {
	router := testRouter()

	if w := doRequest(t, router, "/api/stocks/export?sortField=bogus"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetSectors(t *testing.T) {
	router := testRouter()

	w := doRequest(t, router, "/api/sectors")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Sectors []string `json:"sectors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Sectors) != 2 {
		t.Errorf("sectors = %v", resp.Sectors)
	}
}
