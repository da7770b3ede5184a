package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
	"github.com/mwhitfield/perfolio/internal/services/portfolio"
)

// VolatilityWindow is the rolling window (trading days) for the volatility series.
const VolatilityWindow = 60

// Service runs the full analysis pipeline. It holds no per-run state: every
// Analyze call builds an independent result.
type Service struct {
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates an analysis service.
func NewService(market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		market: market,
		logger: logger,
	}
}

// Analyze validates the request, resolves prices for the holdings plus the
// benchmark, composes the portfolio and benchmark daily return series, and
// computes the four statistics along with the series the presentation layer
// charts.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	weights := models.NewWeightVector(req.Holdings)

	tickers := append([]string{}, weights.Tickers()...)
	tickers = append(tickers, req.Benchmark)

	prices, err := s.market.Resolve(ctx, tickers, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	benchReturns, err := portfolio.BenchmarkReturns(prices, req.Benchmark)
	if err != nil {
		return nil, err
	}

	// The benchmark is fetched alongside the holdings but is never part of
	// the weighted sum.
	portReturns, err := portfolio.Compose(prices.Without(req.Benchmark), weights)
	if err != nil {
		return nil, err
	}

	alpha, beta := AlphaBeta(portReturns, benchReturns, req.RiskFreeRate, PeriodsPerYear)

	result := &models.AnalysisResult{
		Metrics: models.MetricsResult{
			Sharpe:      Sharpe(portReturns.Values, req.RiskFreeRate, PeriodsPerYear),
			MaxDrawdown: MaxDrawdown(portReturns.Values),
			Alpha:       alpha,
			Beta:        beta,
		},
		PortfolioReturns:  portReturns,
		BenchmarkReturns:  benchReturns,
		CumPortfolio:      portReturns.Cumulative(),
		CumBenchmark:      benchReturns.Cumulative(),
		RollingVolatility: RollingVolatility(portReturns, VolatilityWindow, PeriodsPerYear),
		DroppedTickers:    prices.Dropped,
		GeneratedAt:       time.Now(),
	}

	s.logger.Info().
		Int("observations", portReturns.Len()).
		Int("dropped", len(result.DroppedTickers)).
		Float64("sharpe", result.Metrics.Sharpe).
		Float64("max_drawdown", result.Metrics.MaxDrawdown).
		Msg("Analysis complete")

	return result, nil
}

// validateRequest rejects malformed requests before any I/O happens.
func validateRequest(req models.AnalysisRequest) error {
	if len(req.Holdings) == 0 {
		return fmt.Errorf("%w: portfolio has no holdings", models.ErrInvalidInput)
	}
	for _, h := range req.Holdings {
		if h.Ticker == "" {
			return fmt.Errorf("%w: holding with empty ticker", models.ErrInvalidInput)
		}
	}
	if req.Benchmark == "" {
		return fmt.Errorf("%w: benchmark ticker is required", models.ErrInvalidInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", models.ErrInvalidInput)
	}
	if req.Start.After(req.End) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			models.ErrInvalidInput, req.Start.Format(common.DateFormat), req.End.Format(common.DateFormat))
	}
	return nil
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
