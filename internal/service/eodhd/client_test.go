package eodhd

import (
	"context"
	"encoding/json"
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

func TestFlexFloat64(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`1.25`, 1.25},
		{`"1.25"`, 1.25},
		{`"NA"`, 0},
		{`null`, 0},
		{`""`, 0},
		{`"garbage"`, 0},
	}
	for _, tc := range tests {
		var f flexFloat64
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), "input %s", tc.raw)
		assert.Equal(t, tc.want, float64(f), "input %s", tc.raw)
	}
}

func TestGetPriceHistoryNormalizesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eod/AAPL", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date": "2026-08-25", "close": 100.0, "adjusted_close": 99.5},
			{"date": "2026-08-26", "close": "101.0", "adjusted_close": "NA"},
			{"date": "not-a-date", "close": 320, "adjusted_close": 320},
			{"date": "2026-08-27", "close": 0, "adjusted_close": 0}
		]`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, 100, testLogger(t))
	series, err := c.GetPriceHistory(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)

	// bad date and zero close rows are dropped
	require.Len(t, series, 2)
	assert.Equal(t, 99.5, series[0].Close, "adjusted close preferred")
	assert.Equal(t, 101.0, series[1].Close, "falls back to close when adjusted is NA")
	assert.Equal(t, time.UTC, series[0].Date.Location())
}

func TestGetCurrentPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/real-time/MSFT", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "MSFT.US", "timestamp": 1787000000, "close": 412.5, "volume": 1200}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, 100, testLogger(t))
	q, ok := c.GetCurrentPrice(context.Background(), "MSFT")

	require.True(t, ok)
	assert.Equal(t, "MSFT", q.Symbol)
	assert.Equal(t, 412.5, q.Price)
	assert.Equal(t, int64(1787000000), q.Timestamp.Unix())
}

func TestGetCurrentPriceNAIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "ZZZZ.US", "close": "NA"}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, 100, testLogger(t))
	_, ok := c.GetCurrentPrice(context.Background(), "ZZZZ")
	assert.False(t, ok)
}
