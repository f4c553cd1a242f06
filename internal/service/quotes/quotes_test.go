package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"FinDeck/internal/domain/models"
)

type stubRest struct {
	prices map[string]float64
	calls  int
}

func (s *stubRest) GetCurrentPrice(_ context.Context, symbol string) (models.Quote, bool) {
	s.calls++
	p, ok := s.prices[symbol]
	if !ok {
		return models.Quote{}, false
	}
	return models.Quote{Symbol: symbol, Price: p, Timestamp: time.Now()}, true
}

func TestCacheStaleEntryTreatedAsAbsent(t *testing.T) {
	c := NewCache(time.Minute)
	c.Update(&models.Quote{Symbol: "AAPL", Price: 150, Timestamp: time.Now().Add(-2 * time.Minute)})

	_, ok := c.Lookup("AAPL")
	assert.False(t, ok, "stale quote must not be served")

	c.Update(&models.Quote{Symbol: "AAPL", Price: 151, Timestamp: time.Now()})
	q, ok := c.Lookup("AAPL")
	assert.True(t, ok)
	assert.Equal(t, 151.0, q.Price)
}

func TestCacheIgnoresInvalidUpdates(t *testing.T) {
	c := NewCache(time.Minute)
	c.Update(nil)
	c.Update(&models.Quote{Symbol: "", Price: 1, Timestamp: time.Now()})

	_, ok := c.Lookup("")
	assert.False(t, ok)
}

func TestServiceLivePreferredOverRest(t *testing.T) {
	live := NewCache(time.Minute)
	live.Update(&models.Quote{Symbol: "AAPL", Price: 150, Timestamp: time.Now()})
	rest := &stubRest{prices: map[string]float64{"AAPL": 140}}

	s := NewService(live, rest, nil)
	q, ok := s.GetCurrentPrice(context.Background(), "AAPL")

	assert.True(t, ok)
	assert.Equal(t, 150.0, q.Price)
	assert.Zero(t, rest.calls)
}

func TestServiceFallsBackToRestAndWarmsCache(t *testing.T) {
	live := NewCache(time.Minute)
	rest := &stubRest{prices: map[string]float64{"MSFT": 410}}

	s := NewService(live, rest, nil)
	q, ok := s.GetCurrentPrice(context.Background(), "MSFT")
	assert.True(t, ok)
	assert.Equal(t, 410.0, q.Price)

	// warmed: second lookup does not hit REST again
	_, ok = s.GetCurrentPrice(context.Background(), "MSFT")
	assert.True(t, ok)
	assert.Equal(t, 1, rest.calls)
}

func TestServiceUnknownSymbol(t *testing.T) {
	s := NewService(NewCache(time.Minute), &stubRest{}, nil)

	_, ok := s.GetCurrentPrice(context.Background(), "ZZZZ")
	assert.False(t, ok)
}
