package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/perfolio/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func growthSeries(n int) models.ReturnSeries {
	s := models.ReturnSeries{}
	value := 1.0
	for i := 0; i < n; i++ {
		if i%7 == 3 {
			value *= 0.99
		} else {
			value *= 1.002
		}
		s.Dates = append(s.Dates, day(i))
		s.Values = append(s.Values, value)
	}
	return s
}

func TestRenderCumulativeChart(t *testing.T) {
	png, err := RenderCumulativeChart(growthSeries(30), growthSeries(30))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestRenderDrawdownChart(t *testing.T) {
	png, err := RenderDrawdownChart(growthSeries(30))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestRenderVolatilityChart(t *testing.T) {
	png, err := RenderVolatilityChart(growthSeries(30))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestRenderCharts_TooFewPoints(t *testing.T) {
	short := growthSeries(1)
	full := growthSeries(10)

	_, err := RenderCumulativeChart(short, full)
	assert.Error(t, err)
	_, err = RenderCumulativeChart(full, short)
	assert.Error(t, err)
	_, err = RenderDrawdownChart(short)
	assert.Error(t, err)
	_, err = RenderVolatilityChart(models.ReturnSeries{})
	assert.Error(t, err)
}
