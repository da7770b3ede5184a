// Package market implements the price resolver: it turns a set of ticker
// symbols and a date range into a single aligned adjusted-close price table.
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
)

// Service resolves tickers against one or more price sources, consulting the
// cache first. Sources are tried in order; the first that returns bars wins.
type Service struct {
	sources []interfaces.PriceSource
	cache   interfaces.MarketDataStorage
	logger  *common.Logger
}

// NewService creates a market service. cache may be nil to disable caching.
func NewService(sources []interfaces.PriceSource, cache interfaces.MarketDataStorage, logger *common.Logger) *Service {
	return &Service{
		sources: sources,
		cache:   cache,
		logger:  logger,
	}
}

// Resolve fetches one adjusted-close series per symbol and unifies them on a
// single sorted ascending date index. Per-symbol fetches fan out concurrently
// but the call blocks until every fetch has finished; callers get either a
// complete table or an error. Symbols that cannot be fetched are dropped and
// recorded in the result's Dropped list; if no symbol resolves the call fails
// with models.ErrNoPriceData.
func (s *Service) Resolve(ctx context.Context, tickers []string, start, end time.Time) (*models.PriceTable, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no tickers requested", models.ErrInvalidInput)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			models.ErrInvalidInput, start.Format(common.DateFormat), end.Format(common.DateFormat))
	}

	// Dedupe while preserving first-seen order.
	seen := make(map[string]bool, len(tickers))
	var order []string
	for _, tk := range tickers {
		if tk == "" || seen[tk] {
			continue
		}
		seen[tk] = true
		order = append(order, tk)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no tickers requested", models.ErrInvalidInput)
	}

	started := time.Now()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		histories = make(map[string][]models.EODBar, len(order))
	)

	for _, ticker := range order {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			bars, err := s.fetchTicker(ctx, ticker, start, end)
			if err != nil {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Dropping unresolvable ticker")
				return
			}
			mu.Lock()
			histories[ticker] = bars
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("price resolution cancelled: %w", err)
	}

	if len(histories) == 0 {
		return nil, fmt.Errorf("%w: none of %d requested tickers could be fetched", models.ErrNoPriceData, len(order))
	}

	table := models.NewPriceTable(order, histories)
	for _, tk := range order {
		if _, ok := histories[tk]; !ok {
			table.Dropped = append(table.Dropped, tk)
		}
	}

	s.logger.Info().
		Int("requested", len(order)).
		Int("resolved", len(table.Tickers)).
		Int("rows", table.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("Price table resolved")

	return table, nil
}

// fetchTicker returns bars for one ticker: fresh cache first, then each
// source in order. A stale cache entry is refreshed and rewritten.
func (s *Service) fetchTicker(ctx context.Context, ticker string, start, end time.Time) ([]models.EODBar, error) {
	if s.cache != nil {
		if history, err := s.cache.GetTickerHistory(ctx, ticker); err == nil {
			if common.IsFresh(history.LastUpdated, common.FreshnessEOD) && coversRange(history.Bars, start, end) {
				s.logger.Debug().Str("ticker", ticker).Msg("Serving EOD history from cache")
				return clipRange(history.Bars, start, end), nil
			}
		}
	}

	var lastErr error
	for _, source := range s.sources {
		bars, err := source.GetEOD(ctx, ticker, start, end)
		if err != nil {
			lastErr = err
			s.logger.Debug().Str("ticker", ticker).Str("source", source.Name()).Err(err).Msg("Price source miss")
			continue
		}

		if s.cache != nil {
			history := &models.TickerHistory{
				Ticker:      ticker,
				Bars:        bars,
				Source:      source.Name(),
				LastUpdated: time.Now(),
			}
			if err := s.cache.SaveTickerHistory(ctx, history); err != nil {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to cache ticker history")
			}
		}

		return bars, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no price sources configured")
	}
	return nil, lastErr
}

// coversRange reports whether cached bars span the requested range. The first
// cached bar must be on or before start and the last on or after end minus a
// few days of slack for weekends and holidays at the range tail.
func coversRange(bars []models.EODBar, start, end time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	const tailSlack = 5 * 24 * time.Hour
	return !bars[0].Date.After(start) && bars[len(bars)-1].Date.After(end.Add(-tailSlack))
}

// clipRange returns the bars within [start, end]. Bars are oldest first.
func clipRange(bars []models.EODBar, start, end time.Time) []models.EODBar {
	var out []models.EODBar
	for _, bar := range bars {
		if bar.Date.Before(start) || bar.Date.After(end) {
			continue
		}
		out = append(out, bar)
	}
	return out
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
