package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
	"FinDeck/pkg/cache"
)

type fakeRates struct {
	latest  map[string]float64
	deltas  map[string]float64
	errs    map[string]error
	history map[string]models.PriceSeries
	calls   int
}

func (f *fakeRates) GetLatest(_ context.Context, series string) (float64, float64, time.Time, error) {
	f.calls++
	if err, ok := f.errs[series]; ok {
		return 0, 0, time.Time{}, err
	}
	v, ok := f.latest[series]
	if !ok {
		return 0, 0, time.Time{}, errProvider
	}
	return v, f.deltas[series], d("2026-08-28"), nil
}

func (f *fakeRates) GetSeries(_ context.Context, series string, _, _ time.Time) (models.PriceSeries, error) {
	if err, ok := f.errs[series+":history"]; ok {
		return nil, err
	}
	return f.history[series], nil
}

type fakeNews struct {
	articles []models.NewsArticle
	err      error
	gotLimit int
	calls    int
}

func (f *fakeNews) TopHeadlines(_ context.Context, limit int) ([]models.NewsArticle, error) {
	f.calls++
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.articles) {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

func allRatesUp(v float64) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range rateSeries {
		out[s.ID] = v
	}
	for _, s := range spreadSeries {
		out[s.ID] = v
	}
	return out
}

func newDashboard(t *testing.T, rates *fakeRates, news *fakeNews) *DashboardUsecase {
	t.Helper()
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(100))
	return NewDashboardUsecase(rates, news, mem, time.Hour, time.Hour, 5, testLogger(t))
}

func TestDashboardRatesSkipsFailedSeries(t *testing.T) {
	rates := &fakeRates{
		latest: allRatesUp(4.25),
		errs:   map[string]error{"DSWP5": errProvider},
	}
	u := newDashboard(t, rates, &fakeNews{})

	out, err := u.Rates(context.Background())
	require.NoError(t, err)

	assert.Len(t, out, len(rateSeries)-1)
	for _, r := range out {
		assert.NotEqual(t, "DSWP5", r.Series)
		assert.Equal(t, 4.25, r.Value)
	}
	// display order preserved
	assert.Equal(t, "FEDFUNDS", out[0].Series)
	assert.Equal(t, "Fed Funds", out[0].Label)
}

func TestDashboardRatesServedFromCache(t *testing.T) {
	rates := &fakeRates{latest: allRatesUp(4.25)}
	u := newDashboard(t, rates, &fakeNews{})

	_, err := u.Rates(context.Background())
	require.NoError(t, err)
	first := rates.calls

	_, err = u.Rates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, rates.calls, "second read should not hit the provider")

	// refresh bypasses the cache
	_, err = u.RefreshRates(context.Background())
	require.NoError(t, err)
	assert.Greater(t, rates.calls, first)
}

func TestDashboardSpreadsScaledToBps(t *testing.T) {
	rates := &fakeRates{
		latest: map[string]float64{"BAMLC0A0CM": 1.02, "BAMLH0A0HYM2": 3.45},
		deltas: map[string]float64{"BAMLC0A0CM": -0.03, "BAMLH0A0HYM2": 0.12},
	}
	u := newDashboard(t, rates, &fakeNews{})

	out, err := u.Spreads(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "IG Index OAS", out[0].Label)
	assert.InDelta(t, 102.0, out[0].Bps, 1e-9)
	assert.InDelta(t, -3.0, out[0].Delta, 1e-9)
	assert.InDelta(t, 345.0, out[1].Bps, 1e-9)
	assert.Empty(t, out[0].History)
}

func TestDashboardSpreadsWithHistory(t *testing.T) {
	rates := &fakeRates{
		latest: map[string]float64{"BAMLC0A0CM": 1.0, "BAMLH0A0HYM2": 3.0},
		history: map[string]models.PriceSeries{
			"BAMLC0A0CM":   {pt("2026-08-27", 0.98), pt("2026-08-28", 1.0)},
			"BAMLH0A0HYM2": {pt("2026-08-27", 2.9), pt("2026-08-28", 3.0)},
		},
	}
	u := newDashboard(t, rates, &fakeNews{})

	out, err := u.Spreads(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Len(t, out[0].History, 2)
	assert.InDelta(t, 98.0, out[0].History[0].Close, 1e-9)
	assert.InDelta(t, 100.0, out[0].History[1].Close, 1e-9)
}

func TestDashboardSpreadsHistoryFailureKeepsLevel(t *testing.T) {
	rates := &fakeRates{
		latest: map[string]float64{"BAMLC0A0CM": 1.0, "BAMLH0A0HYM2": 3.0},
		errs: map[string]error{
			"BAMLC0A0CM:history":   errProvider,
			"BAMLH0A0HYM2:history": errProvider,
		},
	}
	u := newDashboard(t, rates, &fakeNews{})

	out, err := u.Spreads(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0].History)
	assert.InDelta(t, 100.0, out[0].Bps, 1e-9)
}

func TestDashboardNews(t *testing.T) {
	news := &fakeNews{articles: []models.NewsArticle{
		{Title: "Fed holds", Source: "Reuters"},
		{Title: "Earnings beat", Source: "Bloomberg"},
	}}
	u := newDashboard(t, &fakeRates{}, news)

	out, err := u.News(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 5, news.gotLimit)

	// cached on the second read
	_, err = u.News(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, news.calls)
}

func TestDashboardNewsError(t *testing.T) {
	u := newDashboard(t, &fakeRates{}, &fakeNews{err: errProvider})

	_, err := u.News(context.Background())
	assert.ErrorIs(t, err, errProvider)
}
