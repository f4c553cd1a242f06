package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
	"FinDeck/internal/ledger"
	"FinDeck/internal/usecase"
	"FinDeck/pkg/logger"
)

type stubQuotes map[string]float64

func (s stubQuotes) GetCurrentPrice(_ context.Context, symbol string) (models.Quote, bool) {
	p, ok := s[symbol]
	if !ok {
		return models.Quote{}, false
	}
	return models.Quote{Symbol: symbol, Price: p, Timestamp: time.Now()}, true
}

type stubHistory map[string]models.PriceSeries

func (s stubHistory) GetPriceHistory(_ context.Context, symbol string, _, _ time.Time) (models.PriceSeries, error) {
	return s[symbol], nil
}

type stubMetrics struct{}

func (stubMetrics) RecordMessageSent(string, string) {}
func (stubMetrics) RecordError(string)               {}
func (stubMetrics) RecordLastPrice(string, float64)  {}
func (stubMetrics) RecordLatency(string, float64)    {}
func (stubMetrics) RecordTrade(string)               {}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*echo.Echo, *ledger.Registry) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	quotes := stubQuotes{"AAPL": 150.0, "MSFT": 410.0, "SPY": 500.0}
	history := stubHistory{
		"AAPL": {
			{Date: time.Now().AddDate(0, 0, -2), Close: 148},
			{Date: time.Now().AddDate(0, 0, -1), Close: 150},
		},
		"SPY": {
			{Date: time.Now().AddDate(0, 0, -2), Close: 495},
			{Date: time.Now().AddDate(0, 0, -1), Close: 500},
		},
	}

	registry := ledger.NewRegistry(time.Hour, 0)
	recon := usecase.NewReconstructUsecase(history, log)
	perf := usecase.NewPerformanceUsecase(recon, 0.02, 252, stubMetrics{}, log)
	h := NewPortfolioHandler(log, registry,
		usecase.NewTradeUsecase(quotes, stubMetrics{}, log),
		usecase.NewHoldingsUsecase(quotes, log),
		perf,
	)

	e := echo.New()
	h.RegisterRoutes(e)
	return e, registry
}

func doJSON(e *echo.Echo, method, path, session, body string) (*httptest.ResponseRecorder, envelope) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestTradeAndHoldingsFlow(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "aapl", "action": "buy", "quantity": 10}`)
	assert.Equal(t, http.StatusCreated, env.Status)

	session := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, session, "resolved session ID must be echoed back")

	var tx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, "AAPL", tx.Symbol)
	assert.Equal(t, int64(10), tx.Quantity)

	_, env = doJSON(e, http.MethodGet, "/api/portfolio/holdings", session, "")
	assert.Equal(t, http.StatusOK, env.Status)

	var snap models.HoldingsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.Len(t, snap.Holdings, 1)
	assert.Equal(t, "AAPL", snap.Holdings[0].Symbol)
	assert.Equal(t, int64(10), snap.Holdings[0].Quantity)
}

func TestSessionsAreIsolated(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "MSFT", "action": "buy", "quantity": 5}`)
	sessionA := rec.Header().Get(SessionHeader)

	// a request without the header gets a fresh empty session
	rec, env := doJSON(e, http.MethodGet, "/api/portfolio/holdings", "", "")
	sessionB := rec.Header().Get(SessionHeader)
	assert.NotEqual(t, sessionA, sessionB)

	var snap models.HoldingsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Empty(t, snap.Holdings)
}

func TestSellWithoutPositionRejected(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "sell", "quantity": 3}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, string(env.Data), "ERR_INSUFFICIENT_SHARES")
}

func TestTradeValidation(t *testing.T) {
	e, _ := newTestServer(t)

	// unknown action
	_, env := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "short", "quantity": 3}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	// non-positive quantity
	_, env = doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "buy", "quantity": 0}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestPerformanceEmptyPortfolio(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodGet, "/api/portfolio/performance", "", "")
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Contains(t, string(env.Data), "ERR_EMPTY_PORTFOLIO")
}

func TestPerformanceReport(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "buy", "quantity": 10}`)
	session := rec.Header().Get(SessionHeader)

	_, env := doJSON(e, http.MethodGet, "/api/portfolio/performance?window=1m&benchmark=SPY", session, "")
	require.Equal(t, http.StatusOK, env.Status)

	var report models.PerformanceReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.False(t, report.ValueSeries.Empty())
	require.NotNil(t, report.Benchmark)
	assert.Equal(t, "SPY", report.Benchmark.Symbol)
}

func TestPerformanceWithoutBenchmark(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "buy", "quantity": 10}`)
	session := rec.Header().Get(SessionHeader)

	_, env := doJSON(e, http.MethodGet, "/api/portfolio/performance?window=1m", session, "")
	require.Equal(t, http.StatusOK, env.Status)

	var report models.PerformanceReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.False(t, report.ValueSeries.Empty())
	assert.Nil(t, report.Benchmark)
}

func TestPerformanceUnknownWindowNormalized(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "buy", "quantity": 10}`)
	session := rec.Header().Get(SessionHeader)

	// "7d" is not a recognized window; it falls back to the default
	// instead of rejecting the request.
	_, env := doJSON(e, http.MethodGet, "/api/portfolio/performance?window=7d", session, "")
	require.Equal(t, http.StatusOK, env.Status)
}

func TestTransactionsLimit(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/portfolio/trade", "",
		`{"symbol": "AAPL", "action": "buy", "quantity": 1}`)
	session := rec.Header().Get(SessionHeader)
	for i := 0; i < 2; i++ {
		doJSON(e, http.MethodPost, "/api/portfolio/trade", session,
			`{"symbol": "MSFT", "action": "buy", "quantity": 1}`)
	}

	_, env := doJSON(e, http.MethodGet, "/api/portfolio/transactions?limit=2", session, "")
	require.Equal(t, http.StatusOK, env.Status)

	var list struct {
		Rows  []models.Transaction `json:"rows"`
		Total int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Rows, 2)
	assert.Equal(t, int64(3), list.Total)
}
