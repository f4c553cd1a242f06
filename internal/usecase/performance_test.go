package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/ledger"
)

func newPerformance(t *testing.T, hist *fakeHistory) *PerformanceUsecase {
	t.Helper()
	recon := NewReconstructUsecase(hist, testLogger(t))
	return NewPerformanceUsecase(recon, 0.02, 252, noopMetrics{}, testLogger(t))
}

func buyLedger(t *testing.T, symbol string, qty int64) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	_, err := l.Record(symbol, models.ActionBuy, qty, decimal.NewFromInt(100))
	require.NoError(t, err)
	return l
}

func TestReportEmptyPortfolio(t *testing.T) {
	u := newPerformance(t, &fakeHistory{})
	_, err := u.Report(context.Background(), ledger.New(), drepo.Win1Y, "SPY")
	assert.ErrorIs(t, err, ErrEmptyPortfolio)

	// A fully unwound position is also empty.
	l := ledger.New()
	_, err = l.Record("AAPL", models.ActionBuy, 5, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = l.Record("AAPL", models.ActionSell, 5, decimal.NewFromInt(12))
	require.NoError(t, err)
	_, err = u.Report(context.Background(), l, drepo.Win1Y, "")
	assert.ErrorIs(t, err, ErrEmptyPortfolio)
}

func TestReportFullPass(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{
		"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110), pt("2026-01-07", 99), pt("2026-01-08", 121)},
		"SPY":  {pt("2026-01-05", 50), pt("2026-01-06", 55), pt("2026-01-07", 52), pt("2026-01-08", 60)},
	}}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 1), drepo.Win1Y, "SPY")
	require.NoError(t, err)

	require.Len(t, report.ValueSeries, 4)
	assert.InDelta(t, -0.10, report.Metrics.MaxDrawdown, 1e-9)

	require.Len(t, report.RiskReturn, 1)
	assert.Equal(t, "AAPL", report.RiskReturn[0].Symbol)
	assert.Greater(t, report.RiskReturn[0].AnnualVol, 0.0)

	require.NotNil(t, report.Benchmark)
	assert.Equal(t, "SPY", report.Benchmark.Symbol)
	require.Len(t, report.Benchmark.Portfolio, 4)
	assert.InDelta(t, 100.0, report.Benchmark.Portfolio[0].Value, 1e-9)
	assert.InDelta(t, 100.0, report.Benchmark.Benchmark[0].Value, 1e-9)
	assert.NotZero(t, report.Benchmark.Beta)
}

func TestReportBenchmarkNormalization(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{
		"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110), pt("2026-01-07", 110)},
		"SPY":  {pt("2026-01-05", 50), pt("2026-01-06", 55), pt("2026-01-07", 55)},
	}}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 2), drepo.Win1Y, "SPY")
	require.NoError(t, err)
	require.NotNil(t, report.Benchmark)

	// Portfolio [200, 220, 220] and benchmark [50, 55, 55] both rebase to
	// [100, 110, 110].
	assert.InDelta(t, 100.0, report.Benchmark.Portfolio[0].Value, 1e-9)
	assert.InDelta(t, 110.0, report.Benchmark.Portfolio[1].Value, 1e-9)
	assert.InDelta(t, 110.0, report.Benchmark.Portfolio[2].Value, 1e-9)
	assert.InDelta(t, 100.0, report.Benchmark.Benchmark[0].Value, 1e-9)
	assert.InDelta(t, 110.0, report.Benchmark.Benchmark[1].Value, 1e-9)
	assert.InDelta(t, 110.0, report.Benchmark.Benchmark[2].Value, 1e-9)

	// Identical return paths give beta of one.
	assert.InDelta(t, 1.0, report.Benchmark.Beta, 1e-9)
}

func TestReportBenchmarkTooShortForBeta(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{
		"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		"SPY":  {pt("2026-01-05", 50), pt("2026-01-06", 55)},
	}}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 2), drepo.Win1Y, "SPY")
	require.NoError(t, err)
	require.NotNil(t, report.Benchmark)

	// Two observations leave a single aligned return, below the minimum
	// for a regression, so beta falls back to zero.
	assert.Zero(t, report.Benchmark.Beta)
}

func TestReportBenchmarkZeroBaseSkipped(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{
		"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		"SPY":  {pt("2026-01-05", 0), pt("2026-01-06", 55)},
	}}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 1), drepo.Win1Y, "SPY")
	require.NoError(t, err)
	assert.Nil(t, report.Benchmark)
	require.NotEmpty(t, report.Diagnostics)
}

func TestReportBenchmarkUnavailable(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		},
		errs: map[string]error{"SPY": errProvider},
	}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 1), drepo.Win1Y, "SPY")
	require.NoError(t, err)
	assert.Nil(t, report.Benchmark)
	assert.NotZero(t, report.Metrics.CAGR, "core metrics survive a missing benchmark")
}

func TestReportDropsThinAssetsFromRiskReturn(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{
		"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		"NEWC": {pt("2026-01-06", 10)},
	}}
	u := newPerformance(t, hist)

	l := buyLedger(t, "AAPL", 1)
	_, err := l.Record("NEWC", models.ActionBuy, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	report, err := u.Report(context.Background(), l, drepo.Win1Y, "")
	require.NoError(t, err)
	require.Len(t, report.RiskReturn, 1)
	assert.Equal(t, "AAPL", report.RiskReturn[0].Symbol)
}

func TestReportAllFetchesEmpty(t *testing.T) {
	hist := &fakeHistory{errs: map[string]error{"AAPL": errProvider}}
	u := newPerformance(t, hist)

	report, err := u.Report(context.Background(), buyLedger(t, "AAPL", 1), drepo.Win1Y, "")
	require.NoError(t, err)
	assert.True(t, report.ValueSeries.Empty())
	assert.Equal(t, models.PerformanceMetrics{}, report.Metrics)
	assert.Len(t, report.Diagnostics, 1)
}

func TestToChartSeries(t *testing.T) {
	series := models.ValueSeries{
		{Date: d("2026-01-05"), Value: 100},
		{Date: d("2026-01-06"), Value: 120},
		{Date: d("2026-01-07"), Value: 90},
	}
	chart := ToChartSeries(series)
	assert.Equal(t, []string{"2026-01-05", "2026-01-06", "2026-01-07"}, chart.Labels)
	assert.Equal(t, 120.0, chart.High)
	assert.Equal(t, 90.0, chart.Low)
}
