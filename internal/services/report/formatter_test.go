package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/perfolio/internal/models"
)

func TestFormatMetrics(t *testing.T) {
	metrics := FormatMetrics(models.MetricsResult{
		Sharpe:      1.2345,
		MaxDrawdown: -0.2512,
		Alpha:       0.031,
		Beta:        0.987,
	})

	require.Len(t, metrics, 4)
	assert.Equal(t, Metric{Label: "Sharpe Ratio", Value: "1.23"}, metrics[0])
	assert.Equal(t, Metric{Label: "Max Drawdown", Value: "-25.12%"}, metrics[1])
	assert.Equal(t, Metric{Label: "Alpha", Value: "3.10%"}, metrics[2])
	assert.Equal(t, Metric{Label: "Beta", Value: "0.99"}, metrics[3])
}

func TestFormatMetrics_UndefinedShowsNA(t *testing.T) {
	metrics := FormatMetrics(models.MetricsResult{
		Sharpe:      math.NaN(),
		MaxDrawdown: 0,
		Alpha:       math.NaN(),
		Beta:        math.Inf(-1),
	})

	assert.Equal(t, "N/A", metrics[0].Value)
	assert.Equal(t, "0.00%", metrics[1].Value, "a true zero is not N/A")
	assert.Equal(t, "N/A", metrics[2].Value)
	assert.Equal(t, "N/A", metrics[3].Value)
}
