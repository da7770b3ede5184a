// Package models defines data structures for Perfolio
package models

import (
	"math"
	"sort"
	"time"
)

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// TickerHistory holds the cached EOD history for one ticker.
type TickerHistory struct {
	Ticker      string    `json:"ticker"`
	Bars        []EODBar  `json:"bars"`
	Source      string    `json:"source"` // "eodhd" or "yahoo"
	LastUpdated time.Time `json:"last_updated"`
}

// PriceTable is a date-indexed, ticker-keyed table of adjusted-close prices.
// Dates are sorted ascending with no duplicates; Tickers preserve first-seen
// request order. A missing observation is NaN until forward-fill is applied
// by the return composer. Dropped lists requested tickers that could not be
// resolved, so callers can surface silent data loss.
type PriceTable struct {
	Dates   []time.Time          `json:"dates"`
	Tickers []string             `json:"tickers"`
	Prices  map[string][]float64 `json:"prices"`
	Dropped []string             `json:"dropped,omitempty"`
}

// NewPriceTable builds a table from per-ticker histories. The date index is
// the sorted union of all per-ticker dates; tickers keep the given order.
func NewPriceTable(order []string, histories map[string][]EODBar) *PriceTable {
	dateSet := make(map[time.Time]bool)
	for _, bars := range histories {
		for _, bar := range bars {
			dateSet[bar.Date] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	table := &PriceTable{
		Dates:  dates,
		Prices: make(map[string][]float64),
	}

	for _, ticker := range order {
		bars, ok := histories[ticker]
		if !ok {
			continue
		}
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, bar := range bars {
			col[index[bar.Date]] = bar.AdjClose
		}
		table.Tickers = append(table.Tickers, ticker)
		table.Prices[ticker] = col
	}

	return table
}

// Len returns the number of rows in the table.
func (t *PriceTable) Len() int {
	return len(t.Dates)
}

// HasTicker reports whether the table contains a column for ticker.
func (t *PriceTable) HasTicker(ticker string) bool {
	_, ok := t.Prices[ticker]
	return ok
}

// Without returns a copy of the table with the given ticker column removed.
// The date index is shared, not copied.
func (t *PriceTable) Without(ticker string) *PriceTable {
	out := &PriceTable{
		Dates:   t.Dates,
		Prices:  make(map[string][]float64, len(t.Prices)),
		Dropped: t.Dropped,
	}
	for _, tk := range t.Tickers {
		if tk == ticker {
			continue
		}
		out.Tickers = append(out.Tickers, tk)
		out.Prices[tk] = t.Prices[tk]
	}
	return out
}

// Column returns the price series for ticker, or nil if absent.
func (t *PriceTable) Column(ticker string) []float64 {
	return t.Prices[ticker]
}
