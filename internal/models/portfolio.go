// Package models defines data structures for Perfolio
package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Holding is one (ticker, weight) pair from a portfolio source.
// Weights are accepted as-is; negative or >1 values are renormalised later.
type Holding struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// WeightVector maps ticker symbols to real-valued weights while preserving
// insertion order. Duplicate tickers are resolved first-occurrence-wins.
type WeightVector struct {
	tickers []string
	weights map[string]float64
}

// NewWeightVector builds a weight vector from holdings, deduplicating tickers
// first-occurrence-wins.
func NewWeightVector(holdings []Holding) WeightVector {
	wv := WeightVector{weights: make(map[string]float64, len(holdings))}
	for _, h := range holdings {
		if _, seen := wv.weights[h.Ticker]; seen {
			continue
		}
		wv.tickers = append(wv.tickers, h.Ticker)
		wv.weights[h.Ticker] = h.Weight
	}
	return wv
}

// Tickers returns ticker symbols in insertion order.
func (wv WeightVector) Tickers() []string {
	return wv.tickers
}

// Weight returns the weight for ticker.
func (wv WeightVector) Weight(ticker string) float64 {
	return wv.weights[ticker]
}

// Len returns the number of entries.
func (wv WeightVector) Len() int {
	return len(wv.tickers)
}

// Restrict returns a copy keeping only tickers for which keep returns true,
// preserving order.
func (wv WeightVector) Restrict(keep func(ticker string) bool) WeightVector {
	out := WeightVector{weights: make(map[string]float64)}
	for _, tk := range wv.tickers {
		if !keep(tk) {
			continue
		}
		out.tickers = append(out.tickers, tk)
		out.weights[tk] = wv.weights[tk]
	}
	return out
}

// Normalized returns a copy whose weights sum to 1.0. Weights already within
// 1e-8 of unit sum are returned unchanged.
func (wv WeightVector) Normalized() WeightVector {
	sum := 0.0
	for _, tk := range wv.tickers {
		sum += wv.weights[tk]
	}
	if math.Abs(sum-1.0) < 1e-8 || sum == 0 {
		return wv
	}
	out := WeightVector{weights: make(map[string]float64, len(wv.tickers))}
	out.tickers = append(out.tickers, wv.tickers...)
	for _, tk := range wv.tickers {
		out.weights[tk] = wv.weights[tk] / sum
	}
	return out
}

// ParseHoldingsCSV reads a portfolio CSV with required columns "ticker" and
// "weight" (any column order, extra columns ignored). Rows with an empty
// ticker or non-numeric weight fail the parse.
func ParseHoldingsCSV(r io.Reader) ([]Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: portfolio CSV is empty or unreadable: %v", ErrInvalidInput, err)
	}

	tickerCol, weightCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ticker":
			tickerCol = i
		case "weight":
			weightCol = i
		}
	}
	if tickerCol < 0 || weightCol < 0 {
		return nil, fmt.Errorf("%w: portfolio CSV must contain 'ticker' and 'weight' columns", ErrInvalidInput)
	}

	var holdings []Holding
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV row: %v", ErrInvalidInput, err)
		}
		if tickerCol >= len(record) || weightCol >= len(record) {
			return nil, fmt.Errorf("%w: CSV row has too few columns", ErrInvalidInput)
		}

		ticker := strings.ToUpper(strings.TrimSpace(record[tickerCol]))
		if ticker == "" {
			return nil, fmt.Errorf("%w: empty ticker symbol", ErrInvalidInput)
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(record[weightCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric weight for %s: %v", ErrInvalidInput, ticker, err)
		}

		holdings = append(holdings, Holding{Ticker: ticker, Weight: weight})
	}

	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: portfolio CSV contains no holdings", ErrInvalidInput)
	}

	return holdings, nil
}
