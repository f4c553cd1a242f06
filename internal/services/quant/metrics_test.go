package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleReturns(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{name: "empty", values: nil, want: nil},
		{name: "single", values: []float64{100}, want: nil},
		{name: "up down up", values: []float64{100, 110, 99, 121}, want: []float64{0.10, -0.10, 0.22222222}},
		{name: "flat", values: []float64{50, 50, 50}, want: []float64{0, 0}},
		{name: "zero predecessor dropped", values: []float64{0, 100, 110}, want: []float64{0.10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleReturns(tt.values)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-8)
			}
		})
	}
}

func TestComputeMetricsSentinel(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {100}} {
		m := ComputeMetrics(values, 0.02, TradingDaysPerYear)
		assert.Zero(t, m.CAGR)
		assert.Zero(t, m.AnnualizedVolatility)
		assert.Zero(t, m.SharpeRatio)
		assert.Zero(t, m.MaxDrawdown)
	}
}

func TestComputeMetricsFlatSeries(t *testing.T) {
	m := ComputeMetrics([]float64{100, 100, 100, 100}, 0.02, TradingDaysPerYear)
	assert.Zero(t, m.CAGR)
	assert.Zero(t, m.AnnualizedVolatility)
	assert.Zero(t, m.SharpeRatio, "sharpe must stay finite at zero volatility")
	assert.Zero(t, m.MaxDrawdown)
}

func TestComputeMetricsDrawdown(t *testing.T) {
	// growth [1.10, 0.99, 1.21], peak [1.10, 1.10, 1.21], trough -10%
	m := ComputeMetrics([]float64{100, 110, 99, 121}, 0.02, TradingDaysPerYear)
	assert.InDelta(t, -0.10, m.MaxDrawdown, 1e-9)

	wantCAGR := math.Pow(1.21, 252.0/4.0) - 1
	assert.InEpsilon(t, wantCAGR, m.CAGR, 1e-9)
	assert.Greater(t, m.AnnualizedVolatility, 0.0)
	assert.InDelta(t, (m.CAGR-0.02)/m.AnnualizedVolatility, m.SharpeRatio, 1e-9)
}

func TestComputeMetricsIdempotent(t *testing.T) {
	values := []float64{100, 104, 101, 108, 99, 115}
	first := ComputeMetrics(values, 0.02, TradingDaysPerYear)
	second := ComputeMetrics(values, 0.02, TradingDaysPerYear)
	assert.Equal(t, first, second)
}

func TestMaxDrawdownNeverPositive(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{name: "monotone up", returns: []float64{0.01, 0.02, 0.03}, want: 0},
		{name: "single drop", returns: []float64{0.10, -0.10, 0.2222222222}, want: -0.10},
		{name: "empty", returns: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.returns), 1e-9)
		})
	}
}

func TestBeta(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.015, 0.005, -0.01}

	t.Run("against itself", func(t *testing.T) {
		assert.InDelta(t, 1.0, Beta(rets, rets), 1e-12)
	})
	t.Run("scaled", func(t *testing.T) {
		double := make([]float64, len(rets))
		for i, r := range rets {
			double[i] = 2 * r
		}
		assert.InDelta(t, 2.0, Beta(double, rets), 1e-12)
	})
	t.Run("zero variance benchmark", func(t *testing.T) {
		assert.Zero(t, Beta(rets, []float64{0.01, 0.01, 0.01, 0.01, 0.01}))
	})
	t.Run("too short", func(t *testing.T) {
		assert.Zero(t, Beta(rets, []float64{0.01}))
	})
}

func TestNormalizeTo100(t *testing.T) {
	t.Run("rebases to common scale", func(t *testing.T) {
		portfolio, ok := NormalizeTo100([]float64{200, 220})
		require.True(t, ok)
		benchmark, ok := NormalizeTo100([]float64{50, 55})
		require.True(t, ok)
		assert.InDeltaSlice(t, []float64{100, 110}, portfolio, 1e-9)
		assert.InDeltaSlice(t, []float64{100, 110}, benchmark, 1e-9)
	})
	t.Run("zero base skipped", func(t *testing.T) {
		_, ok := NormalizeTo100([]float64{0, 55})
		assert.False(t, ok)
	})
	t.Run("empty skipped", func(t *testing.T) {
		_, ok := NormalizeTo100(nil)
		assert.False(t, ok)
	})
}

func TestAnnualizedReturnAndVol(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.01, 0.005}
	mean := Mean(returns)
	assert.InDelta(t, math.Pow(1+mean, 252)-1, AnnualizedReturn(returns, TradingDaysPerYear), 1e-9)
	assert.InDelta(t, Stdev(returns)*math.Sqrt(252), AnnualizedVolatility(returns, TradingDaysPerYear), 1e-9)
	assert.Zero(t, AnnualizedVolatility([]float64{0.01}, TradingDaysPerYear))
}
