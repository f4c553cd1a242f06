package repository

import (
	"context"
	"time"

	"FinDeck/internal/domain/models"
)

// PriceHistorySource provides daily close series for analytics. An empty
// series and a failed fetch are equivalent from the caller's point of view.
type PriceHistorySource interface {
	GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
}

// QuoteSource provides the current price used to value holdings. The bool
// result distinguishes "no price available" from a zero price.
type QuoteSource interface {
	GetCurrentPrice(ctx context.Context, symbol string) (models.Quote, bool)
}

// RateSource provides macro series observations (treasury yields, OAS).
type RateSource interface {
	GetLatest(ctx context.Context, series string) (value, delta float64, asOf time.Time, err error)
	GetSeries(ctx context.Context, series string, from, to time.Time) (models.PriceSeries, error)
}

type NewsSource interface {
	TopHeadlines(ctx context.Context, limit int) ([]models.NewsArticle, error)
}
