// Command perfolio runs a one-shot portfolio analysis: it reads a holdings
// CSV, fetches prices, prints the four statistics, and optionally writes the
// charts and a PDF report to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwhitfield/perfolio/internal/app"
	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/models"
	"github.com/mwhitfield/perfolio/internal/services/analysis"
	"github.com/mwhitfield/perfolio/internal/services/report"
)

func main() {
	var (
		portfolioPath = flag.String("portfolio", "", "path to portfolio CSV with ticker,weight columns (required)")
		benchmark     = flag.String("benchmark", "", "benchmark ticker (default from config)")
		riskFree      = flag.Float64("risk-free-rate", -1, "annual risk-free rate as a decimal (default from config)")
		start         = flag.String("start", "", "range start, YYYY-MM-DD (default from config)")
		end           = flag.String("end", "", "range end, YYYY-MM-DD (default today)")
		outDir        = flag.String("out", "", "directory to write charts and PDF report (optional)")
		configPath    = flag.String("config", "", "path to config file")
	)
	flag.Parse()

	if *portfolioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: perfolio --portfolio holdings.csv [--benchmark SPY] [--out reports/]")
		os.Exit(2)
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	req, err := buildRequest(a, *portfolioPath, *benchmark, *riskFree, *start, *end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	result, err := a.AnalysisService.Analyze(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	for _, m := range report.FormatMetrics(result.Metrics) {
		fmt.Printf("%-13s %s\n", m.Label+":", m.Value)
	}
	if len(result.DroppedTickers) > 0 {
		fmt.Printf("Dropped:      %v (no price data)\n", result.DroppedTickers)
	}

	if *outDir != "" {
		if err := writeArtifacts(a, result, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write artifacts: %v\n", err)
			os.Exit(1)
		}
	}
}

func buildRequest(a *app.App, portfolioPath, benchmark string, riskFree float64, start, end string) (models.AnalysisRequest, error) {
	f, err := os.Open(portfolioPath)
	if err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("cannot open portfolio CSV: %w", err)
	}
	defer f.Close()

	holdings, err := models.ParseHoldingsCSV(f)
	if err != nil {
		return models.AnalysisRequest{}, err
	}

	req := models.AnalysisRequest{
		Holdings:     holdings,
		Benchmark:    benchmark,
		RiskFreeRate: riskFree,
	}
	if req.Benchmark == "" {
		req.Benchmark = a.Config.Analysis.Benchmark
	}
	if req.RiskFreeRate < 0 {
		req.RiskFreeRate = a.Config.Analysis.RiskFreeRate
	}

	if start == "" {
		start = a.Config.Analysis.StartDate
	}
	req.Start, err = time.Parse(common.DateFormat, start)
	if err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("%w: malformed start date %q", models.ErrInvalidInput, start)
	}

	if end == "" {
		req.End = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		req.End, err = time.Parse(common.DateFormat, end)
		if err != nil {
			return models.AnalysisRequest{}, fmt.Errorf("%w: malformed end date %q", models.ErrInvalidInput, end)
		}
	}

	return req, nil
}

func writeArtifacts(a *app.App, result *models.AnalysisResult, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	charts := map[string]func() ([]byte, error){
		"cumulative_returns.png": func() ([]byte, error) {
			return analysis.RenderCumulativeChart(result.CumPortfolio, result.CumBenchmark)
		},
		"drawdown.png": func() ([]byte, error) {
			return analysis.RenderDrawdownChart(result.CumPortfolio)
		},
		"rolling_volatility.png": func() ([]byte, error) {
			return analysis.RenderVolatilityChart(result.RollingVolatility)
		},
	}

	for name, render := range charts {
		png, err := render()
		if err != nil {
			a.Logger.Warn().Str("chart", name).Err(err).Msg("Skipping chart")
			continue
		}
		if err := os.WriteFile(filepath.Join(outDir, name), png, 0644); err != nil {
			return err
		}
	}

	pdf, err := a.ReportService.GeneratePDF(context.Background(), result)
	if err != nil {
		return err
	}
	target := filepath.Join(outDir, "portfolio_report.pdf")
	if err := os.WriteFile(target, pdf, 0644); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", target)
	return nil
}
