package analysis

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwhitfield/perfolio/internal/models"
)

// RenderCumulativeChart renders the portfolio vs benchmark cumulative growth
// series as a PNG line chart.
func RenderCumulativeChart(cumPort, cumBench models.ReturnSeries) ([]byte, error) {
	if cumPort.Len() < 2 || cumBench.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 data points per series, got %d and %d", cumPort.Len(), cumBench.Len())
	}

	portSeries := chart.TimeSeries{
		Name: "Portfolio",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: cumPort.Dates,
		YValues: cumPort.Values,
	}

	benchSeries := chart.TimeSeries{
		Name: "Benchmark",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: cumBench.Dates,
		YValues: cumBench.Values,
	}

	graph := baseChart("Cumulative Returns", "%.2fx")
	graph.Series = []chart.Series{portSeries, benchSeries}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return renderPNG(&graph)
}

// RenderDrawdownChart renders the drawdown curve of the cumulative portfolio
// series as a shaded PNG area chart.
func RenderDrawdownChart(cumPort models.ReturnSeries) ([]byte, error) {
	if cumPort.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", cumPort.Len())
	}

	dd := DrawdownSeries(cumPort)

	ddSeries := chart.TimeSeries{
		Name: "Drawdown",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth: 1.5,
			FillColor:   drawing.ColorFromHex("dc2626").WithAlpha(60),
		},
		XValues: dd.Dates,
		YValues: dd.Values,
	}

	graph := baseChart("Drawdown Curve", "%.1f%%")
	graph.YAxis.ValueFormatter = func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.1f%%", f*100)
		}
		return ""
	}
	graph.Series = []chart.Series{ddSeries}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return renderPNG(&graph)
}

// RenderVolatilityChart renders the rolling annualized volatility series as a
// PNG line chart.
func RenderVolatilityChart(vol models.ReturnSeries) ([]byte, error) {
	if vol.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", vol.Len())
	}

	volSeries := chart.TimeSeries{
		Name: fmt.Sprintf("Rolling %d-day Volatility", VolatilityWindow),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("7c3aed"), // violet-600
			StrokeWidth: 2.0,
		},
		XValues: vol.Dates,
		YValues: vol.Values,
	}

	graph := baseChart(fmt.Sprintf("Rolling %d-day Volatility", VolatilityWindow), "%.2f")
	graph.Series = []chart.Series{volSeries}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return renderPNG(&graph)
}

func baseChart(title, yFormat string) chart.Chart {
	return chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf(yFormat, f)
				}
				return ""
			},
		},
	}
}

func renderPNG(graph *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
