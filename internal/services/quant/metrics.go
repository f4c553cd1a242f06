package quant

import (
	"math"

	"FinDeck/internal/domain/models"
)

// TradingDaysPerYear is the default annualization base for daily series.
const TradingDaysPerYear = 252

// ComputeMetrics derives the standard performance statistics from a value
// series. Degenerate inputs (fewer than 2 observations, or no defined
// returns) yield the all-zero sentinel, never an error, since a user may
// view performance before any holding period accrues.
func ComputeMetrics(values []float64, riskFree, periodsPerYear float64) models.PerformanceMetrics {
	returns := SimpleReturns(values)
	if len(returns) == 0 {
		return models.PerformanceMetrics{}
	}

	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	cagr := 0.0
	if growth > 0 {
		cagr = math.Pow(growth, periodsPerYear/float64(len(values))) - 1
	} else {
		cagr = -1
	}

	vol := AnnualizedVolatility(returns, periodsPerYear)

	sharpe := 0.0
	if vol != 0 {
		sharpe = (cagr - riskFree) / vol
	}

	return models.PerformanceMetrics{
		CAGR:                 cagr,
		AnnualizedVolatility: vol,
		SharpeRatio:          sharpe,
		MaxDrawdown:          MaxDrawdown(returns),
	}
}

// AnnualizedVolatility is the sample stdev of returns scaled by
// sqrt(periodsPerYear). 0 with fewer than 2 return observations.
func AnnualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return Stdev(returns) * math.Sqrt(periodsPerYear)
}

// AnnualizedReturn compounds the mean period return over a year.
func AnnualizedReturn(returns []float64, periodsPerYear float64) float64 {
	return math.Pow(1+Mean(returns), periodsPerYear) - 1
}

// MaxDrawdown is the deepest peak-to-trough decline of the cumulative
// growth curve, as a non-positive fraction. 0 if the curve never falls
// below its own running peak.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	growth := 1.0
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, r := range returns {
		growth *= 1 + r
		if growth > peak {
			peak = growth
		}
		if peak > 0 {
			if dd := growth/peak - 1; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Beta regresses the first return series against the second (cov/var).
// Series are aligned by truncating to the shorter length. 0 when the
// benchmark has no variance or fewer than 2 aligned observations.
func Beta(returns, benchmark []float64) float64 {
	n := len(returns)
	if len(benchmark) < n {
		n = len(benchmark)
	}
	if n < 2 {
		return 0
	}
	a := returns[:n]
	b := benchmark[:n]
	meanA := Mean(a)
	meanB := Mean(b)
	cov := 0.0
	varB := 0.0
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varB += db * db
	}
	if varB == 0 {
		return 0
	}
	return cov / varB
}

// NormalizeTo100 rebases a series to start at 100. The second result is
// false when the series is empty or its base value is zero, in which case
// the comparison should be skipped.
func NormalizeTo100(values []float64) ([]float64, bool) {
	if len(values) == 0 || values[0] == 0 {
		return nil, false
	}
	out := make([]float64, len(values))
	base := values[0]
	for i, v := range values {
		out[i] = v / base * 100
	}
	return out, true
}
