package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/ledger"
	"FinDeck/internal/services/quant"
	"FinDeck/pkg/logger"
)

// ErrEmptyPortfolio signals that no analytics are possible because the
// ledger nets out to zero holdings. Distinct from a portfolio whose value
// happens to be zero.
var ErrEmptyPortfolio = errors.New("portfolio has no holdings")

// PerformanceUsecase runs a full analytics pass: value reconstruction,
// portfolio metrics, per-asset risk/return and an optional benchmark
// comparison. It never mutates the ledger; re-running against the same
// ledger and the same external data yields identical results.
type PerformanceUsecase struct {
	recon    *ReconstructUsecase
	riskFree float64
	periods  float64
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewPerformanceUsecase(recon *ReconstructUsecase, riskFree, periodsPerYear float64, metrics drepo.Metrics, log *logger.Logger) *PerformanceUsecase {
	return &PerformanceUsecase{
		recon:    recon,
		riskFree: riskFree,
		periods:  periodsPerYear,
		metrics:  metrics,
		log:      log,
	}
}

// Report computes the full performance report over the window. benchmark
// may be empty to skip the comparison.
func (u *PerformanceUsecase) Report(ctx context.Context, l *ledger.Ledger, window drepo.Window, benchmark string) (*models.PerformanceReport, error) {
	start := time.Now()
	defer func() {
		u.metrics.RecordLatency("performance_report", time.Since(start).Seconds())
	}()

	quantities := ResolveQuantities(l.Transactions())
	if len(quantities) == 0 {
		return nil, ErrEmptyPortfolio
	}

	to := time.Now().UTC()
	from := window.Start(to)

	histories, diags := u.recon.FetchHistories(ctx, sortedSymbols(quantities), from, to)
	series := Combine(quantities, histories)

	report := &models.PerformanceReport{
		Metrics:     quant.ComputeMetrics(series.Values(), u.riskFree, u.periods),
		ValueSeries: series,
		RiskReturn:  u.riskReturn(histories),
		Diagnostics: diags,
	}

	if benchmark != "" && !series.Empty() {
		cmp, diag := u.compareBenchmark(ctx, series, benchmark, from, to)
		report.Benchmark = cmp
		if diag != nil {
			report.Diagnostics = append(report.Diagnostics, *diag)
		}
	}
	return report, nil
}

// riskReturn computes one annualized risk/return point per asset from its
// own price series. Assets with fewer than 2 observations are dropped, not
// defaulted to zero, since a zero/zero chart point would be misleading.
func (u *PerformanceUsecase) riskReturn(histories map[string]models.PriceSeries) []models.AssetRiskReturn {
	symbols := make([]string, 0, len(histories))
	for s := range histories {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := make([]models.AssetRiskReturn, 0, len(symbols))
	for _, symbol := range symbols {
		series := histories[symbol]
		if len(series) < 2 {
			continue
		}
		closes := make([]float64, len(series))
		for i, p := range series {
			closes[i] = p.Close
		}
		returns := quant.SimpleReturns(closes)
		if len(returns) == 0 {
			continue
		}
		out = append(out, models.AssetRiskReturn{
			Symbol:       symbol,
			AnnualReturn: quant.AnnualizedReturn(returns, u.periods),
			AnnualVol:    quant.AnnualizedVolatility(returns, u.periods),
		})
	}
	return out
}

// compareBenchmark aligns the benchmark's closes to the portfolio's dates
// (forward-filled, starting at the benchmark's first observation), rebases
// both curves to 100 and computes beta. A missing benchmark or a zero base
// value skips the comparison with a diagnostic instead of failing the run.
func (u *PerformanceUsecase) compareBenchmark(ctx context.Context, series models.ValueSeries, symbol string, from, to time.Time) (*models.BenchmarkComparison, *models.Diagnostic) {
	histories, _ := u.recon.FetchHistories(ctx, []string{symbol}, from, to)
	bench, ok := histories[symbol]
	if !ok {
		return nil, &models.Diagnostic{Symbol: symbol, Reason: "benchmark history unavailable"}
	}

	var (
		dates     []time.Time
		portVals  []float64
		benchVals []float64
		idx       int
		last      float64
		seenFirst bool
	)
	for _, p := range series {
		for idx < len(bench) && !bench[idx].Date.After(p.Date) {
			last = bench[idx].Close
			seenFirst = true
			idx++
		}
		if !seenFirst {
			continue
		}
		dates = append(dates, p.Date)
		portVals = append(portVals, p.Value)
		benchVals = append(benchVals, last)
	}

	normPort, ok := quant.NormalizeTo100(portVals)
	if !ok {
		return nil, &models.Diagnostic{Symbol: symbol, Reason: "benchmark comparison skipped: zero base value"}
	}
	normBench, ok := quant.NormalizeTo100(benchVals)
	if !ok {
		return nil, &models.Diagnostic{Symbol: symbol, Reason: "benchmark comparison skipped: zero base value"}
	}

	cmp := &models.BenchmarkComparison{
		Symbol: symbol,
		Beta:   quant.Beta(quant.SimpleReturns(portVals), quant.SimpleReturns(benchVals)),
	}
	cmp.Portfolio = make(models.ValueSeries, len(dates))
	cmp.Benchmark = make(models.ValueSeries, len(dates))
	for i, d := range dates {
		cmp.Portfolio[i] = models.ValuePoint{Date: d, Value: normPort[i]}
		cmp.Benchmark[i] = models.ValuePoint{Date: d, Value: normBench[i]}
	}
	return cmp, nil
}

// Series reconstructs just the value curve, for charting.
func (u *PerformanceUsecase) Series(ctx context.Context, l *ledger.Ledger, window drepo.Window) (models.ValueSeries, []models.Diagnostic, error) {
	quantities := ResolveQuantities(l.Transactions())
	if len(quantities) == 0 {
		return nil, nil, ErrEmptyPortfolio
	}
	to := time.Now().UTC()
	series, diags := u.recon.Reconstruct(ctx, quantities, window.Start(to), to)
	return series, diags, nil
}

// ToChartSeries shapes a value series for the dashboard line chart.
func ToChartSeries(series models.ValueSeries) models.ChartSeries {
	out := models.ChartSeries{Labels: make([]string, len(series)), Values: make([]float64, len(series))}
	for i, p := range series {
		out.Labels[i] = p.Date.Format("2006-01-02")
		out.Values[i] = p.Value
		if i == 0 || p.Value > out.High {
			out.High = p.Value
		}
		if i == 0 || p.Value < out.Low {
			out.Low = p.Value
		}
	}
	return out
}
