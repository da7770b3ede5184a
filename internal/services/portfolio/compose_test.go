package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/perfolio/internal/models"
)

func tableFrom(prices map[string][]float64, days int) *models.PriceTable {
	table := &models.PriceTable{Prices: make(map[string][]float64)}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		table.Dates = append(table.Dates, base.AddDate(0, 0, i))
	}
	for ticker, col := range prices {
		table.Tickers = append(table.Tickers, ticker)
		table.Prices[ticker] = col
	}
	return table
}

func weightsFor(pairs ...interface{}) models.WeightVector {
	var holdings []models.Holding
	for i := 0; i < len(pairs); i += 2 {
		holdings = append(holdings, models.Holding{
			Ticker: pairs[i].(string),
			Weight: pairs[i+1].(float64),
		})
	}
	return models.NewWeightVector(holdings)
}

func TestCompose_WeightedSum(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110, 99},
		"BBB": {50, 50, 55},
	}, 3)

	series, err := Compose(table, weightsFor("AAA", 0.6, "BBB", 0.4))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	assert.InDelta(t, 0.6*0.10+0.4*0.0, series.Values[0], 1e-12)
	assert.InDelta(t, 0.6*(99.0/110.0-1)+0.4*0.10, series.Values[1], 1e-12)
	assert.Equal(t, table.Dates[1], series.Dates[0])
}

func TestCompose_LengthIsPricesMinusOne(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 101, 102, 103, 104},
	}, 5)

	series, err := Compose(table, weightsFor("AAA", 1.0))
	require.NoError(t, err)
	assert.Equal(t, table.Len()-1, series.Len())
}

func TestCompose_MissingTickerRenormalizes(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110},
	}, 2)

	// BBB never resolved; AAA's half weight is scaled back to 1.0 and the
	// series equals AAA's own returns.
	series, err := Compose(table, weightsFor("AAA", 0.5, "BBB", 0.5))
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.InDelta(t, 0.10, series.Values[0], 1e-12)
}

func TestCompose_NoTradableAssets(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110},
	}, 2)

	_, err := Compose(table, weightsFor("XXX", 0.5, "YYY", 0.5))
	assert.ErrorIs(t, err, models.ErrNoTradableAssets)
}

func TestCompose_EmptyTable(t *testing.T) {
	_, err := Compose(&models.PriceTable{Prices: map[string][]float64{}}, weightsFor("AAA", 1.0))
	assert.ErrorIs(t, err, models.ErrNoTradableAssets)

	_, err = Compose(nil, weightsFor("AAA", 1.0))
	assert.ErrorIs(t, err, models.ErrNoTradableAssets)
}

func TestCompose_ForwardFillsGaps(t *testing.T) {
	nan := math.NaN()
	table := tableFrom(map[string][]float64{
		"AAA": {100, nan, 120},
	}, 3)

	// The gap takes the prior close, so day 2 is flat and day 3 carries the
	// full move from 100 to 120.
	series, err := Compose(table, weightsFor("AAA", 1.0))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.InDelta(t, 0.0, series.Values[0], 1e-12)
	assert.InDelta(t, 0.20, series.Values[1], 1e-12)
}

func TestCompose_DropsRowsBeforeFirstObservation(t *testing.T) {
	nan := math.NaN()
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110, 121, 133.1},
		"BBB": {nan, nan, 50, 55},
	}, 4)

	// BBB has no history before day 3, so the first two return rows are
	// unusable and only the final row survives.
	series, err := Compose(table, weightsFor("AAA", 0.5, "BBB", 0.5))
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, table.Dates[3], series.Dates[0])
	assert.InDelta(t, 0.5*0.10+0.5*0.10, series.Values[0], 1e-12)
}

func TestCompose_WeightsAlreadyNormalized(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110},
		"BBB": {50, 55},
	}, 2)

	// Within tolerance of unit sum, weights are used as-is.
	series, err := Compose(table, weightsFor("AAA", 0.5+4e-9, "BBB", 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.10, series.Values[0], 1e-8)
}

func TestBenchmarkReturns_SingleColumn(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"SPY": {400, 404, 400},
	}, 3)

	series, err := BenchmarkReturns(table, "SPY")
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.InDelta(t, 0.01, series.Values[0], 1e-12)
	assert.InDelta(t, 400.0/404.0-1, series.Values[1], 1e-12)
}

func TestBenchmarkReturns_MissingTicker(t *testing.T) {
	table := tableFrom(map[string][]float64{
		"AAA": {100, 110},
	}, 2)

	_, err := BenchmarkReturns(table, "SPY")
	assert.ErrorIs(t, err, models.ErrNoPriceData)
}

func TestForwardFill_LeadingGapsRemain(t *testing.T) {
	nan := math.NaN()
	out := forwardFill([]float64{nan, nan, 10, nan, 12})

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.Equal(t, 10.0, out[2])
	assert.Equal(t, 10.0, out[3])
	assert.Equal(t, 12.0, out[4])
}

func TestSimpleReturns_ZeroDenominator(t *testing.T) {
	out := simpleReturns([]float64{0, 10, 11})

	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 0.10, out[1], 1e-12)
}
