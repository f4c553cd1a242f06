package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/pkg/logger"
)

// ReconstructUsecase turns holdings plus per-asset price histories into a
// single portfolio value series.
type ReconstructUsecase struct {
	history drepo.PriceHistorySource
	log     *logger.Logger
}

func NewReconstructUsecase(history drepo.PriceHistorySource, log *logger.Logger) *ReconstructUsecase {
	return &ReconstructUsecase{history: history, log: log}
}

// Reconstruct fetches each holding's history over the window and combines
// them into the portfolio value curve.
func (u *ReconstructUsecase) Reconstruct(ctx context.Context, quantities map[string]int64, from, to time.Time) (models.ValueSeries, []models.Diagnostic) {
	histories, diags := u.FetchHistories(ctx, sortedSymbols(quantities), from, to)
	return Combine(quantities, histories), diags
}

// FetchHistories pulls price series for the given symbols. A failed fetch
// and an empty result are the same condition: that symbol is dropped with a
// diagnostic while the rest proceed. Returned series are normalized to UTC
// dates and sorted ascending.
func (u *ReconstructUsecase) FetchHistories(ctx context.Context, symbols []string, from, to time.Time) (map[string]models.PriceSeries, []models.Diagnostic) {
	histories := make(map[string]models.PriceSeries, len(symbols))
	var diags []models.Diagnostic

	for _, symbol := range symbols {
		series, err := u.history.GetPriceHistory(ctx, symbol, from, to)
		if err != nil {
			u.log.Warn("price history fetch failed",
				logger.String("symbol", symbol), logger.Error(err))
		}
		if err != nil || series.Empty() {
			diags = append(diags, models.Diagnostic{
				Symbol: symbol,
				Reason: "price history unavailable",
			})
			continue
		}
		normalized := make(models.PriceSeries, len(series))
		for i, p := range series {
			normalized[i] = models.PricePoint{Date: day(p.Date), Close: p.Close}
		}
		sort.Slice(normalized, func(i, j int) bool { return normalized[i].Date.Before(normalized[j].Date) })
		histories[symbol] = normalized
	}
	return histories, diags
}

// Combine sums quantity-weighted price series over the union of all
// observation dates. Where one holding has no observation for a date that
// another holding trades on, its last known value is carried forward, never
// treated as zero; dates before a holding's first observation get no
// contribution from it. If no holding produced data the result is an
// explicitly empty series, which callers must keep distinct from a series
// that is flat at zero.
func Combine(quantities map[string]int64, histories map[string]models.PriceSeries) models.ValueSeries {
	dateSet := make(map[time.Time]struct{})
	for _, series := range histories {
		for _, p := range series {
			dateSet[p.Date] = struct{}{}
		}
	}
	if len(dateSet) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Sorted fold order keeps float summation reproducible run to run.
	values := make([]float64, len(dates))
	for _, symbol := range sortedSymbols(quantities) {
		series, ok := histories[symbol]
		if !ok {
			continue
		}
		qty := float64(quantities[symbol])
		idx := 0
		last := math.NaN()
		for di, d := range dates {
			for idx < len(series) && !series[idx].Date.After(d) {
				last = series[idx].Close
				idx++
			}
			if !math.IsNaN(last) {
				values[di] += qty * last
			}
		}
	}

	out := make(models.ValueSeries, len(dates))
	for i, d := range dates {
		out[i] = models.ValuePoint{Date: d, Value: values[i]}
	}
	return out
}

func sortedSymbols(quantities map[string]int64) []string {
	symbols := make([]string, 0, len(quantities))
	for s := range quantities {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// day collapses a timestamp to its UTC date.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
