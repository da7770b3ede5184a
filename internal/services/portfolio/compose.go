// Package portfolio turns a price table and a weight vector into a single
// daily portfolio return series.
package portfolio

import (
	"fmt"
	"math"
	"time"

	"github.com/mwhitfield/perfolio/internal/models"
)

// Compose computes the weighted daily portfolio return series.
//
// Tickers in the weight vector that are absent from the price table are
// dropped; if nothing remains the call fails with models.ErrNoTradableAssets.
// Prices are forward-filled along the date axis (a gap takes the most recent
// prior observation; values are never interpolated or back-filled), simple
// returns are computed per ticker, the leading row lacking a predecessor is
// dropped, and rows still containing a missing value after forward-fill are
// dropped so a partial-history asset cannot corrupt the weighted sum.
// Surviving weights are renormalised to sum to 1.0 (tolerance 1e-8).
//
// Weights are static for the whole period: this is a buy-and-hold
// approximation with no rebalancing over time.
func Compose(prices *models.PriceTable, weights models.WeightVector) (models.ReturnSeries, error) {
	if prices == nil || prices.Len() == 0 {
		return models.ReturnSeries{}, fmt.Errorf("%w: empty price table", models.ErrNoTradableAssets)
	}

	selected := weights.Restrict(prices.HasTicker)
	if selected.Len() == 0 {
		return models.ReturnSeries{}, fmt.Errorf("%w: none of the portfolio tickers are present in the price data", models.ErrNoTradableAssets)
	}
	selected = selected.Normalized()

	tickers := selected.Tickers()
	returns := make(map[string][]float64, len(tickers))
	for _, tk := range tickers {
		returns[tk] = simpleReturns(forwardFill(prices.Column(tk)))
	}

	// Row i of the return matrix corresponds to prices.Dates[i+1].
	var (
		dates  []time.Time
		values []float64
	)
	for i := 0; i < prices.Len()-1; i++ {
		weighted := 0.0
		valid := true
		for _, tk := range tickers {
			r := returns[tk][i]
			if math.IsNaN(r) {
				valid = false
				break
			}
			weighted += selected.Weight(tk) * r
		}
		if !valid {
			continue
		}
		dates = append(dates, prices.Dates[i+1])
		values = append(values, weighted)
	}

	return models.ReturnSeries{Dates: dates, Values: values}, nil
}

// BenchmarkReturns converts a single-ticker price column into a return
// series, applying the same forward-fill and leading-row policy as Compose.
func BenchmarkReturns(prices *models.PriceTable, ticker string) (models.ReturnSeries, error) {
	col := prices.Column(ticker)
	if col == nil {
		return models.ReturnSeries{}, fmt.Errorf("%w: benchmark %s missing from price data", models.ErrNoPriceData, ticker)
	}

	rets := simpleReturns(forwardFill(col))

	var (
		dates  []time.Time
		values []float64
	)
	for i, r := range rets {
		if math.IsNaN(r) {
			continue
		}
		dates = append(dates, prices.Dates[i+1])
		values = append(values, r)
	}
	return models.ReturnSeries{Dates: dates, Values: values}, nil
}

// forwardFill returns a copy with each NaN replaced by the most recent prior
// observation. Leading NaNs have no prior observation and remain NaN.
func forwardFill(col []float64) []float64 {
	out := make([]float64, len(col))
	last := math.NaN()
	for i, v := range col {
		if !math.IsNaN(v) {
			last = v
		}
		out[i] = last
	}
	return out
}

// simpleReturns computes consecutive-ratio-minus-one per adjacent pair,
// yielding len(prices)-1 values. A pair with a missing or non-positive
// denominator yields NaN.
func simpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		cur := prices[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			out[i-1] = math.NaN()
			continue
		}
		out[i-1] = cur/prev - 1
	}
	return out
}
