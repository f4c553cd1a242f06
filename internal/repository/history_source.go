package repository

import (
	"context"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	applogger "FinDeck/pkg/logger"
)

// LayeredHistorySource serves close series from the local ClickHouse store
// first and falls back to the remote provider when the store has nothing
// for the symbol. Analytics callers already treat failure and empty as the
// same condition, so the fallback hides nothing.
type LayeredHistorySource struct {
	local  drepo.PriceHistorySource
	remote drepo.PriceHistorySource
	l      *applogger.Logger
}

func NewLayeredHistorySource(local, remote drepo.PriceHistorySource, l *applogger.Logger) *LayeredHistorySource {
	return &LayeredHistorySource{local: local, remote: remote, l: l}
}

func (s *LayeredHistorySource) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	if s.local != nil {
		series, err := s.local.GetPriceHistory(ctx, symbol, from, to)
		if err == nil && !series.Empty() {
			return series, nil
		}
		if err != nil && s.l != nil {
			s.l.Warn("local price history failed, falling back",
				applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	if s.remote == nil {
		return nil, nil
	}
	return s.remote.GetPriceHistory(ctx, symbol, from, to)
}

var _ drepo.PriceHistorySource = (*LayeredHistorySource)(nil)
