package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinDeck/internal/domain/models"
	"FinDeck/pkg/logger"
)

// Shared test doubles for the collaborator interfaces.

type fakeQuotes map[string]float64

func (f fakeQuotes) GetCurrentPrice(_ context.Context, symbol string) (models.Quote, bool) {
	price, ok := f[symbol]
	if !ok {
		return models.Quote{}, false
	}
	return models.Quote{Symbol: symbol, Price: price, Timestamp: time.Now()}, true
}

type fakeHistory struct {
	series map[string]models.PriceSeries
	errs   map[string]error
	calls  []string
}

func (f *fakeHistory) GetPriceHistory(_ context.Context, symbol string, _, _ time.Time) (models.PriceSeries, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.series[symbol], nil
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(string, string) {}
func (noopMetrics) RecordError(string)               {}
func (noopMetrics) RecordLastPrice(string, float64)  {}
func (noopMetrics) RecordLatency(string, float64)    {}
func (noopMetrics) RecordTrade(string)               {}

var errProvider = errors.New("provider down")

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func pt(date string, close float64) models.PricePoint {
	return models.PricePoint{Date: d(date), Close: close}
}
