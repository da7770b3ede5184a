package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(n int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNewPriceTable_UnionIndex(t *testing.T) {
	histories := map[string][]EODBar{
		"AAA": {
			{Date: date(0), AdjClose: 100},
			{Date: date(2), AdjClose: 102},
		},
		"BBB": {
			{Date: date(1), AdjClose: 50},
			{Date: date(2), AdjClose: 52},
		},
	}

	table := NewPriceTable([]string{"AAA", "BBB"}, histories)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, []time.Time{date(0), date(1), date(2)}, table.Dates)

	aaa := table.Column("AAA")
	assert.Equal(t, 100.0, aaa[0])
	assert.True(t, math.IsNaN(aaa[1]), "missing observation is NaN")
	assert.Equal(t, 102.0, aaa[2])

	bbb := table.Column("BBB")
	assert.True(t, math.IsNaN(bbb[0]))
	assert.Equal(t, 50.0, bbb[1])
}

func TestNewPriceTable_PreservesRequestOrder(t *testing.T) {
	histories := map[string][]EODBar{
		"ZZZ": {{Date: date(0), AdjClose: 1}},
		"AAA": {{Date: date(0), AdjClose: 2}},
	}

	table := NewPriceTable([]string{"ZZZ", "AAA"}, histories)
	assert.Equal(t, []string{"ZZZ", "AAA"}, table.Tickers)
}

func TestNewPriceTable_SkipsUnresolvedTickers(t *testing.T) {
	histories := map[string][]EODBar{
		"AAA": {{Date: date(0), AdjClose: 100}},
	}

	table := NewPriceTable([]string{"AAA", "GONE"}, histories)
	assert.Equal(t, []string{"AAA"}, table.Tickers)
	assert.False(t, table.HasTicker("GONE"))
	assert.Nil(t, table.Column("GONE"))
}

func TestPriceTable_Without(t *testing.T) {
	histories := map[string][]EODBar{
		"AAA": {{Date: date(0), AdjClose: 100}},
		"SPY": {{Date: date(0), AdjClose: 400}},
	}
	table := NewPriceTable([]string{"AAA", "SPY"}, histories)
	table.Dropped = []string{"GONE"}

	rest := table.Without("SPY")
	assert.Equal(t, []string{"AAA"}, rest.Tickers)
	assert.False(t, rest.HasTicker("SPY"))
	assert.Equal(t, table.Dates, rest.Dates)
	assert.Equal(t, []string{"GONE"}, rest.Dropped, "dropped list carries over")

	// The original is untouched.
	assert.True(t, table.HasTicker("SPY"))
}
