// Package marketdata owns the instrument snapshot: fetching it from the
// provider with bounded retries, caching screened responses in Redis, and
// making sure a newer refresh always supersedes an older in-flight fetch.
package marketdata

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"equilibrio-api/cache"
	"equilibrio-api/models"
	"equilibrio-api/services/screener"
)

const (
	snapshotTTL      = 5 * time.Minute
	responseCacheTTL = 30 * time.Second
	maxFetchRetries  = 3
	retryBaseDelay   = 500 * time.Millisecond
)

// ErrSymbolNotFound is returned when a symbol is not in the universe.
type ErrSymbolNotFound struct {
	Symbol string
}

func (e ErrSymbolNotFound) Error() string {
	return fmt.Sprintf("stock not found: %s", e.Symbol)
}

// Service serves instrument data to the controllers. The screener pipeline
// itself is pure; this service supplies it with a consistent snapshot.
type Service struct {
	provider Provider
	cache    *cache.RedisClient

	mu       sync.Mutex
	state    *snapshotState
	inflight *fetchCall
}

type snapshotState struct {
	stocks    []models.StockData
	sectors   []string
	fetchedAt time.Time
}

// fetchCall is one in-flight provider fetch, shared by every caller that
// needs a snapshot while it runs. A refresh marks it superseded and cancels
// it; a superseded call's result is never installed.
type fetchCall struct {
	done       chan struct{}
	cancel     context.CancelFunc
	stocks     []models.StockData
	err        error
	superseded bool
}

// NewService creates a market data service. The cache may be nil.
func NewService(provider Provider, redisCache *cache.RedisClient) *Service {
	return &Service{
		provider: provider,
		cache:    redisCache,
	}
}

// Screen answers one query against the current snapshot, consulting the
// response cache first.
func (s *Service) Screen(ctx context.Context, req models.StockListRequest) (models.StockListResponse, error) {
	key := requestCacheKey(req)

	var cached models.StockListResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	stocks, err := s.Snapshot(ctx)
	if err != nil {
		return models.StockListResponse{}, err
	}

	resp := screener.Screen(stocks, req)

	if err := s.cache.Set(ctx, key, resp, responseCacheTTL); err != nil {
		log.Printf("Failed to cache screen response: %v", err)
	}
	return resp, nil
}

// GetStock returns one decorated instrument by symbol, case-insensitively.
func (s *Service) GetStock(ctx context.Context, symbol string) (models.StockView, error) {
	stocks, err := s.Snapshot(ctx)
	if err != nil {
		return models.StockView{}, err
	}
	for _, stock := range stocks {
		if strings.EqualFold(stock.Symbol, symbol) {
			return screener.Decorate([]models.StockData{stock})[0], nil
		}
	}
	return models.StockView{}, ErrSymbolNotFound{Symbol: symbol}
}

// Filtered returns the whole filtered, sorted set, used by the CSV export.
func (s *Service) Filtered(ctx context.Context, filter models.StockFilter, sortField, sortOrder string) ([]models.StockData, error) {
	stocks, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filtered := screener.ApplyFilter(stocks, filter)
	screener.ApplySorting(filtered, sortField, sortOrder)
	return filtered, nil
}

// Sectors returns the sector taxonomy from the current snapshot.
func (s *Service) Sectors(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.state != nil && len(s.state.sectors) > 0 {
		sectors := s.state.sectors
		s.mu.Unlock()
		return sectors, nil
	}
	s.mu.Unlock()

	if _, err := s.Snapshot(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return []string{}, nil
	}
	return s.state.sectors, nil
}

// Snapshot returns the instrument collection, fetching from the provider if
// the cached snapshot is stale or absent. Concurrent callers share a single
// in-flight fetch; a caller whose fetch gets superseded by a refresh waits
// for the newer one instead of failing.
func (s *Service) Snapshot(ctx context.Context) ([]models.StockData, error) {
	for {
		s.mu.Lock()
		if s.state != nil && time.Since(s.state.fetchedAt) < snapshotTTL {
			stocks := s.state.stocks
			s.mu.Unlock()
			return stocks, nil
		}
		call := s.inflight
		if call == nil {
			call = s.startFetch()
		}
		s.mu.Unlock()

		select {
		case <-call.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		s.mu.Lock()
		superseded := call.superseded
		s.mu.Unlock()
		if superseded {
			continue
		}
		return call.stocks, call.err
	}
}

// Refresh invalidates every cached view of the universe and fetches a fresh
// snapshot. Only a refresh supersedes an in-flight fetch: the old fetch is
// cancelled and its result, should it still arrive, is discarded so a stale
// response can never overwrite a fresher one.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state = nil
	if prev := s.inflight; prev != nil {
		prev.superseded = true
		s.inflight = nil
		prev.cancel()
	}
	call := s.startFetch()
	s.mu.Unlock()

	if err := s.cache.FlushDB(ctx); err != nil {
		log.Printf("Failed to flush response cache: %v", err)
	}

	select {
	case <-call.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return call.err
}

// startFetch launches one provider fetch. Must be called with s.mu held.
// The fetch runs on its own context so one caller giving up does not cancel
// the result for everyone else waiting on it.
func (s *Service) startFetch() *fetchCall {
	fetchCtx, cancel := context.WithCancel(context.Background())
	call := &fetchCall{done: make(chan struct{}), cancel: cancel}
	s.inflight = call

	go func() {
		defer cancel()
		stocks, sectors, err := s.fetchWithRetry(fetchCtx)

		s.mu.Lock()
		call.stocks, call.err = stocks, err
		if s.inflight == call {
			s.inflight = nil
			if err == nil {
				s.state = &snapshotState{
					stocks:    stocks,
					sectors:   sectors,
					fetchedAt: time.Now(),
				}
			}
		}
		s.mu.Unlock()
		close(call.done)
	}()
	return call
}

func (s *Service) fetchWithRetry(ctx context.Context) ([]models.StockData, []string, error) {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 1; attempt <= maxFetchRetries; attempt++ {
		stocks, err := s.provider.FetchUniverse(ctx)
		if err == nil {
			sectors, serr := s.provider.FetchSectors(ctx)
			if serr != nil {
				log.Printf("Failed to fetch sectors, keeping empty taxonomy: %v", serr)
				sectors = []string{}
			}
			return stocks, sectors, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("snapshot fetch cancelled: %w", ctx.Err())
		}
		log.Printf("Snapshot fetch attempt %d/%d failed: %v", attempt, maxFetchRetries, err)

		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("snapshot fetch cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, nil, fmt.Errorf("snapshot fetch failed after %d attempts: %w", maxFetchRetries, lastErr)
}

// requestCacheKey hashes the request parameters into a cache key.
func requestCacheKey(req models.StockListRequest) string {
	return fmt.Sprintf("stocks:%s_%s_%d_%d_%s_%.1f_%.1f_%.1f_%.1f_%s_%s_%s_%s_%s",
		req.SortField,
		req.SortOrder,
		req.Page,
		req.PageSize,
		req.SearchTerm,
		req.RSIMin,
		req.RSIMax,
		req.PriceMin,
		req.PriceMax,
		strings.Join(req.Sectors, ","),
		strings.Join(req.Signals, ","),
		strings.Join(req.Trend, ","),
		strings.Join(req.VolumeProfile, ","),
		strings.Join(req.EquilibriumZone, ","),
	)
}
