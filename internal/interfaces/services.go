// Package interfaces defines service contracts for Perfolio
package interfaces

import (
	"context"
	"time"

	"github.com/mwhitfield/perfolio/internal/models"
)

// MarketService resolves ticker symbols into an aligned price table.
type MarketService interface {
	// Resolve fetches one adjusted-close series per symbol and unifies them
	// on a single sorted date index. Symbols that cannot be fetched are
	// dropped from the result and listed in PriceTable.Dropped; if none
	// resolve the call fails with models.ErrNoPriceData. The call blocks
	// until the table is complete; there are no partial results.
	Resolve(ctx context.Context, tickers []string, start, end time.Time) (*models.PriceTable, error)
}

// AnalysisService runs the full returns-and-risk pipeline.
type AnalysisService interface {
	// Analyze validates the request, resolves prices, composes portfolio and
	// benchmark return series, and computes the four statistics. Each call
	// builds an independent result; the service holds no per-run state.
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// ReportService renders an analysis result for human consumption.
type ReportService interface {
	// GeneratePDF builds the PDF summary: title page, metrics table, and one
	// page per chart.
	GeneratePDF(ctx context.Context, result *models.AnalysisResult) ([]byte, error)
}
