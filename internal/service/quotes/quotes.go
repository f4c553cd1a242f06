package quotes

import (
	"context"
	"sync"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/pkg/logger"
)

// Cache holds the latest streamed price per symbol. Entries older than
// maxAge are treated as absent so a dead stream does not keep valuing
// holdings at stale prices.
type Cache struct {
	mu     sync.RWMutex
	m      map[string]models.Quote
	maxAge time.Duration
}

func NewCache(maxAge time.Duration) *Cache {
	return &Cache{m: make(map[string]models.Quote), maxAge: maxAge}
}

func (c *Cache) Update(q *models.Quote) {
	if q == nil || q.Symbol == "" {
		return
	}
	c.mu.Lock()
	c.m[q.Symbol] = *q
	c.mu.Unlock()
}

func (c *Cache) Lookup(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	q, ok := c.m[symbol]
	c.mu.RUnlock()
	if !ok {
		return models.Quote{}, false
	}
	if c.maxAge > 0 && time.Since(q.Timestamp) > c.maxAge {
		return models.Quote{}, false
	}
	return q, true
}

// Service answers current-price lookups from the live cache first and falls
// back to the REST source for symbols the stream does not carry. Absence is
// a normal outcome, not an error.
type Service struct {
	live *Cache
	rest drepo.QuoteSource
	log  *logger.Logger
}

func NewService(live *Cache, rest drepo.QuoteSource, log *logger.Logger) *Service {
	return &Service{live: live, rest: rest, log: log}
}

func (s *Service) GetCurrentPrice(ctx context.Context, symbol string) (models.Quote, bool) {
	if q, ok := s.live.Lookup(symbol); ok {
		return q, true
	}
	if s.rest == nil {
		return models.Quote{}, false
	}
	q, ok := s.rest.GetCurrentPrice(ctx, symbol)
	if ok {
		s.live.Update(&q)
	}
	return q, ok
}

var _ drepo.QuoteSource = (*Service)(nil)
