// Package analysis implements the risk/return metrics engine and the
// orchestration that turns an analysis request into a result.
package analysis

import (
	"math"

	"github.com/mwhitfield/perfolio/internal/models"
)

// PeriodsPerYear is the annualization convention for daily return series.
const PeriodsPerYear = 252

// Sharpe computes the annualized Sharpe ratio of a return series.
//
// The annual risk-free rate is converted to a per-period rate by dividing by
// periodsPerYear; the result is sqrt(periodsPerYear) * mean(excess) /
// std(excess) with the sample standard deviation. When the deviation is zero
// or undefined (fewer than 2 observations, or constant returns) the result
// is NaN rather than a division by zero.
func Sharpe(returns []float64, riskFreeAnnual float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}

	rfPerPeriod := riskFreeAnnual / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - rfPerPeriod
	}

	sd := stdDev(excess)
	if sd == 0 || math.IsNaN(sd) {
		return math.NaN()
	}

	return math.Sqrt(float64(periodsPerYear)) * mean(excess) / sd
}

// MaxDrawdown returns the most negative peak-to-trough decline of the
// cumulative growth series built from returns. The result is always <= 0;
// it is exactly 0 for an empty series or one that never dips below its
// running peak.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	cum := 1.0
	peak := 1.0
	minDD := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		dd := (cum - peak) / peak
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD
}

// AlphaBeta regresses portfolio excess returns on benchmark excess returns.
//
// The two series are inner-joined on shared dates; with fewer than 2 aligned
// observations both results are NaN. Excess means the per-period risk-free
// rate is subtracted from each series before the ordinary least-squares fit
// (a variant seen elsewhere centers each series on its sample mean instead,
// which changes the economic meaning of alpha; it is not what this function
// does). Beta is the regression slope; alpha is the intercept annualized by
// periodsPerYear. This is a plain linear fit with no outlier treatment.
func AlphaBeta(port, bench models.ReturnSeries, riskFreeAnnual float64, periodsPerYear int) (alpha, beta float64) {
	pv, bv := models.Align(port, bench)
	if len(pv) < 2 {
		return math.NaN(), math.NaN()
	}

	rfPerPeriod := riskFreeAnnual / float64(periodsPerYear)
	y := make([]float64, len(pv))
	x := make([]float64, len(bv))
	for i := range pv {
		y[i] = pv[i] - rfPerPeriod
		x[i] = bv[i] - rfPerPeriod
	}

	slope, intercept, ok := linearRegression(x, y)
	if !ok {
		return math.NaN(), math.NaN()
	}

	return intercept * float64(periodsPerYear), slope
}

// RollingVolatility computes the annualized rolling sample standard deviation
// of a return series over the given window. The result starts at the first
// date with a full window, so it has len(returns)-window+1 points; a series
// shorter than the window yields an empty result.
func RollingVolatility(returns models.ReturnSeries, window, periodsPerYear int) models.ReturnSeries {
	if window < 2 || returns.Len() < window {
		return models.ReturnSeries{}
	}

	annualize := math.Sqrt(float64(periodsPerYear))
	out := models.ReturnSeries{}
	for i := window - 1; i < returns.Len(); i++ {
		out.Dates = append(out.Dates, returns.Dates[i])
		out.Values = append(out.Values, stdDev(returns.Values[i-window+1:i+1])*annualize)
	}
	return out
}

// DrawdownSeries returns the drawdown at each point of a cumulative growth
// series: (cum - running peak) / running peak, always <= 0.
func DrawdownSeries(cum models.ReturnSeries) models.ReturnSeries {
	out := models.ReturnSeries{
		Dates:  cum.Dates,
		Values: make([]float64, len(cum.Values)),
	}
	peak := math.Inf(-1)
	for i, v := range cum.Values {
		if v > peak {
			peak = v
		}
		out.Values[i] = (v - peak) / peak
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the sample standard deviation (n-1 denominator).
func stdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// linearRegression fits y = slope*x + intercept by ordinary least squares.
// ok is false when x has zero variance.
func linearRegression(x, y []float64) (slope, intercept float64, ok bool) {
	mx := mean(x)
	my := mean(y)

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - mx
		sxx += dx * dx
		sxy += dx * (y[i] - my)
	}
	if sxx == 0 {
		return 0, 0, false
	}

	slope = sxy / sxx
	intercept = my - slope*mx
	return slope, intercept, true
}
