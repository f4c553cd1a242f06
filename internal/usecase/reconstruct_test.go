package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
)

func TestCombineSingleHolding(t *testing.T) {
	series := Combine(
		map[string]int64{"AAPL": 10},
		map[string]models.PriceSeries{
			"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		},
	)
	require.Len(t, series, 2)
	assert.Equal(t, 1000.0, series[0].Value)
	assert.Equal(t, 1100.0, series[1].Value)
}

func TestCombineForwardFillsGaps(t *testing.T) {
	// MSFT has no print on the 6th; its last known value carries forward
	// instead of dropping the portfolio by the missing leg.
	series := Combine(
		map[string]int64{"AAPL": 1, "MSFT": 2},
		map[string]models.PriceSeries{
			"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110), pt("2026-01-07", 120)},
			"MSFT": {pt("2026-01-05", 50), pt("2026-01-07", 60)},
		},
	)
	require.Len(t, series, 3)
	assert.Equal(t, 100.0+2*50, series[0].Value)
	assert.Equal(t, 110.0+2*50, series[1].Value)
	assert.Equal(t, 120.0+2*60, series[2].Value)
}

func TestCombineNoContributionBeforeFirstObservation(t *testing.T) {
	// MSFT starts trading on the 6th; the 5th must not invent a value.
	series := Combine(
		map[string]int64{"AAPL": 1, "MSFT": 1},
		map[string]models.PriceSeries{
			"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 100)},
			"MSFT": {pt("2026-01-06", 50)},
		},
	)
	require.Len(t, series, 2)
	assert.Equal(t, 100.0, series[0].Value)
	assert.Equal(t, 150.0, series[1].Value)
}

func TestCombineEmptyIsDistinctFromZero(t *testing.T) {
	series := Combine(map[string]int64{"AAPL": 10}, map[string]models.PriceSeries{})
	assert.True(t, series.Empty())
	assert.NotEqual(t, models.ValueSeries{{Value: 0}}, series)
}

func TestReconstructDegradesPerSymbol(t *testing.T) {
	// One of two holdings fails to fetch; the result equals the surviving
	// holding's value series alone, neither empty nor zeroed.
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"AAPL": {pt("2026-01-05", 100), pt("2026-01-06", 110)},
		},
		errs: map[string]error{"MSFT": errProvider},
	}
	u := NewReconstructUsecase(hist, testLogger(t))

	series, diags := u.Reconstruct(context.Background(),
		map[string]int64{"AAPL": 2, "MSFT": 3}, d("2026-01-01"), d("2026-01-31"))

	require.Len(t, series, 2)
	assert.Equal(t, 200.0, series[0].Value)
	assert.Equal(t, 220.0, series[1].Value)
	require.Len(t, diags, 1)
	assert.Equal(t, "MSFT", diags[0].Symbol)
}

func TestReconstructEmptyFetchEqualsFailedFetch(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{"AAPL": {}},
		errs:   map[string]error{"MSFT": errProvider},
	}
	u := NewReconstructUsecase(hist, testLogger(t))

	series, diags := u.Reconstruct(context.Background(),
		map[string]int64{"AAPL": 1, "MSFT": 1}, d("2026-01-01"), d("2026-01-31"))

	assert.True(t, series.Empty())
	assert.Len(t, diags, 2)
}

func TestReconstructFetchesInSortedOrder(t *testing.T) {
	hist := &fakeHistory{series: map[string]models.PriceSeries{}}
	u := NewReconstructUsecase(hist, testLogger(t))

	u.Reconstruct(context.Background(),
		map[string]int64{"MSFT": 1, "AAPL": 1, "GOOG": 1}, d("2026-01-01"), d("2026-01-31"))

	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, hist.calls)
}

func TestCombineNormalizesIntradayTimestamps(t *testing.T) {
	noon := d("2026-01-05").Add(12 * time.Hour)
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"AAPL": {{Date: noon, Close: 100}},
		},
	}
	u := NewReconstructUsecase(hist, testLogger(t))
	series, _ := u.Reconstruct(context.Background(),
		map[string]int64{"AAPL": 1}, d("2026-01-01"), d("2026-01-31"))
	require.Len(t, series, 1)
	assert.Equal(t, d("2026-01-05"), series[0].Date)
}
