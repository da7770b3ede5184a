// Package models defines data structures for Perfolio
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ReturnSeries is a date-indexed sequence of simple period-over-period
// fractional changes. The first fetched observation has no predecessor and is
// excluded, so a series derived from n prices has n-1 values.
type ReturnSeries struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// Len returns the number of observations.
func (s ReturnSeries) Len() int {
	return len(s.Values)
}

// Cumulative returns the cumulative growth series Π(1+r) starting from 1.0,
// aligned to the same dates.
func (s ReturnSeries) Cumulative() ReturnSeries {
	out := ReturnSeries{
		Dates:  s.Dates,
		Values: make([]float64, len(s.Values)),
	}
	growth := 1.0
	for i, r := range s.Values {
		growth *= 1 + r
		out.Values[i] = growth
	}
	return out
}

// Align inner-joins two series on shared dates, returning value slices in
// matching order.
func Align(a, b ReturnSeries) (av, bv []float64) {
	index := make(map[time.Time]int, len(b.Dates))
	for i, d := range b.Dates {
		index[d] = i
	}
	for i, d := range a.Dates {
		j, ok := index[d]
		if !ok {
			continue
		}
		av = append(av, a.Values[i])
		bv = append(bv, b.Values[j])
	}
	return av, bv
}

// MetricsResult holds the four risk/return statistics for one analysis run.
// Undefined metrics are NaN; JSON encoding renders those as null so the
// presentation layer can show "N/A" instead of a number.
type MetricsResult struct {
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"` // non-positive; 0 means no drawdown observed
	Alpha       float64 `json:"alpha"`        // annualized
	Beta        float64 `json:"beta"`
}

// AnalysisRequest carries everything the analysis service needs for one run.
type AnalysisRequest struct {
	Holdings     []Holding `json:"holdings"`
	Benchmark    string    `json:"benchmark"`
	RiskFreeRate float64   `json:"risk_free_rate"` // annual decimal
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// AnalysisResult is the complete outcome of one analysis run: the four
// statistics plus the series the presentation layer charts. It is built once
// per invocation and never mutated by the core.
type AnalysisResult struct {
	Metrics           MetricsResult `json:"metrics"`
	PortfolioReturns  ReturnSeries  `json:"portfolio_returns"`
	BenchmarkReturns  ReturnSeries  `json:"benchmark_returns"`
	CumPortfolio      ReturnSeries  `json:"cum_portfolio"`
	CumBenchmark      ReturnSeries  `json:"cum_benchmark"`
	RollingVolatility ReturnSeries  `json:"rolling_volatility"`
	DroppedTickers    []string      `json:"dropped_tickers,omitempty"`
	GeneratedAt       time.Time     `json:"generated_at"`
}

// jsonFloat handles NaN, which encoding/json rejects for float64.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	// Shortest round-trippable representation, same as encoding/json default.
	return []byte(strconv.FormatFloat(float64(f), 'g', -1, 64)), nil
}

// MarshalJSON renders undefined (NaN) metrics as null.
func (m MetricsResult) MarshalJSON() ([]byte, error) {
	type view struct {
		Sharpe      jsonFloat `json:"sharpe"`
		MaxDrawdown jsonFloat `json:"max_drawdown"`
		Alpha       jsonFloat `json:"alpha"`
		Beta        jsonFloat `json:"beta"`
	}
	return json.Marshal(view{
		Sharpe:      jsonFloat(m.Sharpe),
		MaxDrawdown: jsonFloat(m.MaxDrawdown),
		Alpha:       jsonFloat(m.Alpha),
		Beta:        jsonFloat(m.Beta),
	})
}
