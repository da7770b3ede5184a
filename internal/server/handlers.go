package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
	"github.com/mwhitfield/perfolio/internal/services/analysis"
	"github.com/mwhitfield/perfolio/internal/services/report"
)

// Server holds the handlers' dependencies.
type Server struct {
	analysis interfaces.AnalysisService
	report   interfaces.ReportService
	config   *common.Config
	logger   *common.Logger
}

// New creates a Server.
func New(analysisService interfaces.AnalysisService, reportService interfaces.ReportService, config *common.Config, logger *common.Logger) *Server {
	return &Server{
		analysis: analysisService,
		report:   reportService,
		config:   config,
		logger:   logger,
	}
}

// Handler builds the HTTP mux with the standard middleware stack applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	return Chain(s.logger, mux)
}

// analyzeRequest is the JSON request body for /api/analyze and /api/report.
// All fields except holdings are optional and fall back to config defaults.
type analyzeRequest struct {
	Holdings     []models.Holding `json:"holdings"`
	Benchmark    string           `json:"benchmark"`
	RiskFreeRate *float64         `json:"risk_free_rate"`
	Start        string           `json:"start"`
	End          string           `json:"end"`
}

// analyzeResponse adds display strings and optional base64 chart PNGs to the
// analysis result.
type analyzeResponse struct {
	*models.AnalysisResult
	Display []report.Metric   `json:"display"`
	Charts  map[string]string `json:"charts,omitempty"`
}

// handleAnalyze runs the pipeline and returns the result as JSON. The request
// is either a JSON body or a multipart form with a "portfolio" CSV file.
// Pass include_charts=true to receive base64-encoded chart PNGs inline.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseRequest(r)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	result, err := s.analysis.Analyze(r.Context(), req)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	resp := analyzeResponse{
		AnalysisResult: result,
		Display:        report.FormatMetrics(result.Metrics),
	}

	if r.URL.Query().Get("include_charts") == "true" {
		resp.Charts = renderCharts(s.logger, result)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleReport runs the pipeline and returns a PDF summary.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseRequest(r)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	result, err := s.analysis.Analyze(r.Context(), req)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	pdf, err := s.report.GeneratePDF(r.Context(), result)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio_report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// parseRequest builds an AnalysisRequest from either a multipart CSV upload
// or a JSON body, filling unset parameters from config defaults.
func (s *Server) parseRequest(r *http.Request) (models.AnalysisRequest, error) {
	var (
		body analyzeRequest
		err  error
	)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		body, err = s.parseMultipart(r)
	} else {
		err = json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			err = fmt.Errorf("%w: malformed JSON body: %v", models.ErrInvalidInput, err)
		}
	}
	if err != nil {
		return models.AnalysisRequest{}, err
	}

	return s.buildRequest(body)
}

func (s *Server) parseMultipart(r *http.Request) (analyzeRequest, error) {
	const maxUpload = 4 << 20 // 4 MiB is generous for a holdings CSV

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return analyzeRequest{}, fmt.Errorf("%w: malformed multipart form: %v", models.ErrInvalidInput, err)
	}

	file, _, err := r.FormFile("portfolio")
	if err != nil {
		return analyzeRequest{}, fmt.Errorf("%w: missing 'portfolio' CSV file", models.ErrInvalidInput)
	}
	defer file.Close()

	holdings, err := models.ParseHoldingsCSV(file)
	if err != nil {
		return analyzeRequest{}, err
	}

	body := analyzeRequest{
		Holdings:  holdings,
		Benchmark: r.FormValue("benchmark"),
		Start:     r.FormValue("start"),
		End:       r.FormValue("end"),
	}
	if rf := r.FormValue("risk_free_rate"); rf != "" {
		var v float64
		if _, err := fmt.Sscanf(rf, "%g", &v); err != nil {
			return analyzeRequest{}, fmt.Errorf("%w: non-numeric risk_free_rate %q", models.ErrInvalidInput, rf)
		}
		body.RiskFreeRate = &v
	}
	return body, nil
}

func (s *Server) buildRequest(body analyzeRequest) (models.AnalysisRequest, error) {
	req := models.AnalysisRequest{
		Holdings:     body.Holdings,
		Benchmark:    body.Benchmark,
		RiskFreeRate: s.config.Analysis.RiskFreeRate,
	}
	if req.Benchmark == "" {
		req.Benchmark = s.config.Analysis.Benchmark
	}
	if body.RiskFreeRate != nil {
		req.RiskFreeRate = *body.RiskFreeRate
	}

	start := body.Start
	if start == "" {
		start = s.config.Analysis.StartDate
	}
	parsedStart, err := time.Parse(common.DateFormat, start)
	if err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("%w: malformed start date %q", models.ErrInvalidInput, start)
	}
	req.Start = parsedStart

	if body.End == "" {
		req.End = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		parsedEnd, err := time.Parse(common.DateFormat, body.End)
		if err != nil {
			return models.AnalysisRequest{}, fmt.Errorf("%w: malformed end date %q", models.ErrInvalidInput, body.End)
		}
		req.End = parsedEnd
	}

	return req, nil
}

// renderCharts renders the three charts as base64 PNG strings. A chart that
// cannot be rendered is omitted.
func renderCharts(logger *common.Logger, result *models.AnalysisResult) map[string]string {
	charts := make(map[string]string)

	if png, err := analysis.RenderCumulativeChart(result.CumPortfolio, result.CumBenchmark); err == nil {
		charts["cumulative"] = base64.StdEncoding.EncodeToString(png)
	} else {
		logger.Warn().Err(err).Msg("Skipping cumulative chart")
	}
	if png, err := analysis.RenderDrawdownChart(result.CumPortfolio); err == nil {
		charts["drawdown"] = base64.StdEncoding.EncodeToString(png)
	} else {
		logger.Warn().Err(err).Msg("Skipping drawdown chart")
	}
	if png, err := analysis.RenderVolatilityChart(result.RollingVolatility); err == nil {
		charts["volatility"] = base64.StdEncoding.EncodeToString(png)
	} else {
		logger.Warn().Err(err).Msg("Skipping volatility chart")
	}

	return charts
}
