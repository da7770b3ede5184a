package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/models"
)

// stubMarket returns a canned price table and records the requested tickers.
type stubMarket struct {
	table     *models.PriceTable
	err       error
	requested []string
}

func (m *stubMarket) Resolve(ctx context.Context, tickers []string, start, end time.Time) (*models.PriceTable, error) {
	m.requested = tickers
	if m.err != nil {
		return nil, m.err
	}
	return m.table, nil
}

func stubTable(days int, prices map[string][]float64) *models.PriceTable {
	table := &models.PriceTable{Prices: prices}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		table.Dates = append(table.Dates, base.AddDate(0, 0, i))
	}
	for ticker := range prices {
		table.Tickers = append(table.Tickers, ticker)
	}
	return table
}

func validAnalysisRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		Holdings:     []models.Holding{{Ticker: "AAA", Weight: 0.5}, {Ticker: "BBB", Weight: 0.5}},
		Benchmark:    "SPY",
		RiskFreeRate: 0.01,
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	market := &stubMarket{table: stubTable(4, map[string][]float64{
		"AAA": {100, 101, 103, 102},
		"BBB": {50, 50.5, 51, 51.5},
		"SPY": {400, 402, 404, 403},
	})}
	svc := NewService(market, common.NewSilentLogger())

	result, err := svc.Analyze(context.Background(), validAnalysisRequest())
	require.NoError(t, err)

	// Holdings plus benchmark are resolved in one call.
	assert.Equal(t, []string{"AAA", "BBB", "SPY"}, market.requested)

	assert.Equal(t, 3, result.PortfolioReturns.Len())
	assert.Equal(t, 3, result.BenchmarkReturns.Len())
	assert.Equal(t, result.PortfolioReturns.Len(), result.CumPortfolio.Len())
	assert.LessOrEqual(t, result.Metrics.MaxDrawdown, 0.0)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestAnalyze_BenchmarkExcludedFromPortfolio(t *testing.T) {
	// Only the benchmark resolved. If its column leaked into the weighted
	// sum the compose step would not fail.
	market := &stubMarket{table: stubTable(3, map[string][]float64{
		"SPY": {400, 402, 404},
	})}
	svc := NewService(market, common.NewSilentLogger())

	req := validAnalysisRequest()
	_, err := svc.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrNoTradableAssets)
}

func TestAnalyze_PropagatesDroppedTickers(t *testing.T) {
	table := stubTable(3, map[string][]float64{
		"AAA": {100, 101, 103},
		"SPY": {400, 402, 404},
	})
	table.Dropped = []string{"BBB"}
	market := &stubMarket{table: table}
	svc := NewService(market, common.NewSilentLogger())

	result, err := svc.Analyze(context.Background(), validAnalysisRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"BBB"}, result.DroppedTickers)
}

func TestAnalyze_RejectsBadRequests(t *testing.T) {
	svc := NewService(&stubMarket{}, common.NewSilentLogger())
	ctx := context.Background()

	req := validAnalysisRequest()
	req.Holdings = nil
	_, err := svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = validAnalysisRequest()
	req.Holdings[0].Ticker = ""
	_, err = svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = validAnalysisRequest()
	req.Benchmark = ""
	_, err = svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = validAnalysisRequest()
	req.Start, req.End = req.End, req.Start
	_, err = svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = validAnalysisRequest()
	req.Start = time.Time{}
	_, err = svc.Analyze(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAnalyze_ResolveErrorPassesThrough(t *testing.T) {
	market := &stubMarket{err: models.ErrNoPriceData}
	svc := NewService(market, common.NewSilentLogger())

	_, err := svc.Analyze(context.Background(), validAnalysisRequest())
	assert.ErrorIs(t, err, models.ErrNoPriceData)
}
