package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, 5*time.Second, testLogger(t))
}

func TestGetLatestSkipsHolidayPlaceholders(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "DGS10", r.URL.Query().Get("series_id"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [
			{"date": "2026-08-28", "value": "."},
			{"date": "2026-08-27", "value": "4.21"},
			{"date": "2026-08-26", "value": "4.27"}
		]}`))
	})

	value, delta, asOf, err := c.GetLatest(context.Background(), "DGS10")
	require.NoError(t, err)
	assert.InDelta(t, 4.21, value, 1e-9)
	assert.InDelta(t, -0.06, delta, 1e-9)
	assert.Equal(t, "2026-08-27", asOf.Format("2006-01-02"))
}

func TestGetLatestSingleObservation(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [{"date": "2026-08-28", "value": "5.33"}]}`))
	})

	value, delta, _, err := c.GetLatest(context.Background(), "SOFR")
	require.NoError(t, err)
	assert.InDelta(t, 5.33, value, 1e-9)
	assert.Zero(t, delta)
}

func TestGetLatestNoUsableObservations(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [{"date": "2026-08-28", "value": "."}]}`))
	})

	_, _, _, err := c.GetLatest(context.Background(), "DSWP5")
	assert.Error(t, err)
}

func TestGetSeries(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asc", r.URL.Query().Get("sort_order"))
		assert.NotEmpty(t, r.URL.Query().Get("observation_start"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [
			{"date": "2026-08-26", "value": "1.02"},
			{"date": "2026-08-27", "value": "."},
			{"date": "2026-08-28", "value": "1.05"}
		]}`))
	})

	series, err := c.GetSeries(context.Background(), "BAMLC0A0CM", time.Now().AddDate(-1, 0, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, 1.02, series[0].Close, 1e-9)
	assert.InDelta(t, 1.05, series[1].Close, 1e-9)
	assert.True(t, series[0].Date.Before(series[1].Date))
}
