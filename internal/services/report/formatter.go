// Package report renders an analysis result for human consumption: display
// strings for the four statistics and a PDF summary with embedded charts.
package report

import (
	"fmt"
	"math"

	"github.com/mwhitfield/perfolio/internal/models"
)

// Metric is one display-formatted statistic.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatMetrics converts a metrics result into display strings, rendering
// undefined values as "N/A" so they cannot be mistaken for a computed zero.
func FormatMetrics(m models.MetricsResult) []Metric {
	return []Metric{
		{Label: "Sharpe Ratio", Value: formatRatio(m.Sharpe)},
		{Label: "Max Drawdown", Value: formatPct(m.MaxDrawdown)},
		{Label: "Alpha", Value: formatPct(m.Alpha)},
		{Label: "Beta", Value: formatRatio(m.Beta)},
	}
}

func formatRatio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatPct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
