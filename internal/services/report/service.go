package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
	"github.com/mwhitfield/perfolio/internal/services/analysis"
)

// Service builds PDF summaries from analysis results.
type Service struct {
	logger *common.Logger
}

// NewService creates a report service.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// GeneratePDF renders the analysis summary: a title page, a metrics table,
// and one page per chart (cumulative returns, drawdown, rolling volatility).
// Charts that cannot be rendered (too few points) are skipped rather than
// failing the report.
func (s *Service) GeneratePDF(ctx context.Context, result *models.AnalysisResult) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("nil analysis result")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	s.titlePage(pdf, result.GeneratedAt)
	s.metricsPage(pdf, result.Metrics)
	s.chartPages(pdf, result)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}

	s.logger.Info().Int("bytes", buf.Len()).Msg("PDF report generated")
	return buf.Bytes(), nil
}

func (s *Service) titlePage(pdf *fpdf.Fpdf, generatedAt time.Time) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 26)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 60, "", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 15, "Portfolio Analysis Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated on: %s", generatedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
}

func (s *Service) metricsPage(pdf *fpdf.Fpdf, metrics models.MetricsResult) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, "Key Metrics", "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageW - left - right) / 2
	rowHeight := 10.0

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(200, 220, 255)
	pdf.CellFormat(colWidth, rowHeight, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(0, 0, 0)
	for _, m := range FormatMetrics(metrics) {
		pdf.CellFormat(colWidth, rowHeight, m.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, m.Value, "1", 1, "C", false, 0, "")
	}
}

func (s *Service) chartPages(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	charts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"cumulative", func() ([]byte, error) {
			return analysis.RenderCumulativeChart(result.CumPortfolio, result.CumBenchmark)
		}},
		{"drawdown", func() ([]byte, error) {
			return analysis.RenderDrawdownChart(result.CumPortfolio)
		}},
		{"volatility", func() ([]byte, error) {
			return analysis.RenderVolatilityChart(result.RollingVolatility)
		}},
	}

	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			s.logger.Warn().Str("chart", c.name).Err(err).Msg("Skipping chart in PDF")
			continue
		}

		pdf.AddPage()
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(c.name, opts, bytes.NewReader(png))
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions(c.name, 10, 20, pageW-20, 0, false, opts, 0, "")
	}
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
