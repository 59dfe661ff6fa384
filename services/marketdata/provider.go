package marketdata

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"equilibrio-api/models"
)

// Provider is the external data source collaborator. It supplies whole
// instrument snapshots with indicator values precomputed and the categorical
// trend/signal/volumeProfile fields already classified; the screener never
// derives those from raw series.
type Provider interface {
	FetchUniverse(ctx context.Context) ([]models.StockData, error)
	FetchSectors(ctx context.Context) ([]string, error)
}

var sectorList = []string{
	"Technology", "Healthcare", "Financial", "Consumer Cyclical",
	"Energy", "Industrials", "Consumer Defensive", "Real Estate",
	"Communication Services", "Utilities", "Basic Materials",
}

var sectorIndustries = map[string][]string{
	"Technology":             {"Software", "Semiconductors", "Hardware", "IT Services"},
	"Healthcare":             {"Biotechnology", "Pharmaceuticals", "Medical Devices", "Healthcare Plans"},
	"Financial":              {"Banks", "Insurance", "Asset Management", "Capital Markets"},
	"Consumer Cyclical":      {"Retail", "Automotive", "Apparel", "Restaurants"},
	"Energy":                 {"Oil & Gas", "Renewable Energy", "Utilities"},
	"Industrials":            {"Aerospace", "Construction", "Manufacturing", "Transportation"},
	"Consumer Defensive":     {"Food Products", "Beverages", "Household Products"},
	"Real Estate":            {"REITs", "Real Estate Services", "Development"},
	"Communication Services": {"Telecom", "Media", "Entertainment"},
	"Utilities":              {"Electric", "Gas", "Water"},
	"Basic Materials":        {"Chemicals", "Metals & Mining", "Paper & Forest Products"},
}

// SyntheticProvider generates a plausible instrument universe in process.
// It stands in for a market data API in development and in tests.
type SyntheticProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticProvider creates a provider seeded for reproducible runs.
func NewSyntheticProvider(seed int64) *SyntheticProvider {
	return &SyntheticProvider{rng: rand.New(rand.NewSource(seed))}
}

type universeEntry struct {
	symbol string
	name   string
	sector string
}

var universe = []universeEntry{
	{"AAPL", "Apple Inc.", "Technology"},
	{"MSFT", "Microsoft Corp.", "Technology"},
	{"GOOGL", "Alphabet Inc.", "Communication Services"},
	{"AMZN", "Amazon.com Inc.", "Consumer Cyclical"},
	{"NVDA", "NVIDIA Corp.", "Technology"},
	{"TSLA", "Tesla Inc.", "Consumer Cyclical"},
	{"META", "Meta Platforms", "Communication Services"},
	{"BRK.B", "Berkshire Hathaway", "Financial"},
	{"JNJ", "Johnson & Johnson", "Healthcare"},
	{"JPM", "JPMorgan Chase", "Financial"},
	{"V", "Visa Inc.", "Financial"},
	{"PG", "Procter & Gamble", "Consumer Defensive"},
	{"MA", "Mastercard Inc.", "Financial"},
	{"HD", "Home Depot", "Consumer Cyclical"},
	{"BAC", "Bank of America", "Financial"},
	{"XOM", "Exxon Mobil", "Energy"},
	{"CVX", "Chevron Corp.", "Energy"},
	{"ABBV", "AbbVie Inc.", "Healthcare"},
	{"KO", "Coca-Cola Co.", "Consumer Defensive"},
	{"PFE", "Pfizer Inc.", "Healthcare"},
}

// FetchUniverse generates one snapshot of the whole universe.
func (p *SyntheticProvider) FetchUniverse(ctx context.Context) ([]models.StockData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	stocks := make([]models.StockData, 0, len(universe))
	for _, entry := range universe {
		stocks = append(stocks, p.generate(entry, now))
	}
	return stocks, nil
}

// FetchSectors returns the sector taxonomy.
func (p *SyntheticProvider) FetchSectors(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sectors := make([]string, len(sectorList))
	copy(sectors, sectorList)
	return sectors, nil
}

func (p *SyntheticProvider) generate(entry universeEntry, now time.Time) models.StockData {
	rng := p.rng

	price := rng.Float64()*500 + 50
	changePercent := (rng.Float64() - 0.5) * 10
	rsi := rng.Float64() * 100
	sma50 := price * (0.9 + rng.Float64()*0.2)
	sma200 := price * (0.85 + rng.Float64()*0.3)
	high52 := price * (1 + rng.Float64()*0.3)
	low52 := price * (0.7 + rng.Float64()*0.2)

	// Equilibrium is the 50% retracement of the 52-week range.
	equilibrium := (high52 + low52) / 2
	priceToEquilibrium := ((price - equilibrium) / equilibrium) * 100

	macd := (rng.Float64() - 0.5) * 5
	macdSignal := macd + (rng.Float64()-0.5)*2

	trend := "neutral"
	if price > sma50 && sma50 > sma200 {
		trend = "bullish"
	} else if price < sma50 && sma50 < sma200 {
		trend = "bearish"
	}

	signal := "hold"
	switch {
	case rsi < 30:
		signal = "buy"
	case rsi > 70:
		signal = "sell"
	case priceToEquilibrium < -15:
		signal = "buy"
	case priceToEquilibrium > 15:
		signal = "sell"
	default:
		switch r := rng.Float64(); {
		case r < 0.2:
			signal = "buy"
		case r < 0.4:
			signal = "sell"
		}
	}

	volume := rng.Float64() * 100000000
	volumeProfile := "medium"
	if volume > 50000000 {
		volumeProfile = "high"
	} else if volume < 10000000 {
		volumeProfile = "low"
	}

	industries := sectorIndustries[entry.sector]
	industry := "General"
	if len(industries) > 0 {
		industry = industries[rng.Intn(len(industries))]
	}

	return models.StockData{
		Symbol:                 entry.symbol,
		Name:                   entry.name,
		Price:                  price,
		Change:                 price * (changePercent / 100),
		ChangePercent:          changePercent,
		Volume:                 int64(volume),
		Sector:                 entry.sector,
		Industry:               industry,
		MarketCap:              price * (rng.Float64()*1000000000 + 100000000),
		RSI:                    rsi,
		StochRSI:               rng.Float64() * 100,
		HistoricRSIAvg:         50 + (rng.Float64()-0.5)*20,
		SMA50:                  sma50,
		SMA200:                 sma200,
		EMA20:                  price * (0.95 + rng.Float64()*0.1),
		MACD:                   macd,
		MACDSignal:             macdSignal,
		MACDHistogram:          macd - macdSignal,
		EquilibriumLevel:       equilibrium,
		PriceToEquilibrium:     priceToEquilibrium,
		Trend:                  trend,
		Signal:                 signal,
		VolumeProfile:          volumeProfile,
		DistanceFrom52WeekHigh: ((price - high52) / high52) * 100,
		DistanceFrom52WeekLow:  ((price - low52) / low52) * 100,
		LastUpdated:            now,
	}
}
