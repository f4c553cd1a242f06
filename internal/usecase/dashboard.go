package usecase

import (
	"context"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/pkg/cache"
	"FinDeck/pkg/logger"
)

// rateSeries maps provider series IDs to display labels, in display order.
var rateSeries = []struct{ ID, Label string }{
	{"FEDFUNDS", "Fed Funds"},
	{"SOFR", "SOFR"},
	{"SOFR90DAYAVG", "SOFR 90D Avg"},
	{"DGS2", "2Y Treasury"},
	{"DGS5", "5Y Treasury"},
	{"DGS10", "10Y Treasury"},
	{"DGS30", "30Y Treasury"},
	{"DSWP5", "5Y Swap"},
	{"T10YIE", "10Y Breakeven"},
}

var spreadSeries = []struct{ ID, Label string }{
	{"BAMLC0A0CM", "IG Index OAS"},
	{"BAMLH0A0HYM2", "HY Index OAS"},
}

// DashboardUsecase aggregates the macro widgets: treasury/money-market
// rates, credit index spreads and market news. Results are cached so page
// loads do not fan out to the providers; the refresh jobs repopulate the
// cache in the background.
type DashboardUsecase struct {
	rates    drepo.RateSource
	news     drepo.NewsSource
	cache    cache.Service
	rateTTL  time.Duration
	newsTTL  time.Duration
	newsSize int
	log      *logger.Logger
}

func NewDashboardUsecase(rates drepo.RateSource, news drepo.NewsSource, c cache.Service, rateTTL, newsTTL time.Duration, newsSize int, log *logger.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		rates:    rates,
		news:     news,
		cache:    c,
		rateTTL:  rateTTL,
		newsTTL:  newsTTL,
		newsSize: newsSize,
		log:      log,
	}
}

// Rates returns the latest observation per rate series. A series that fails
// to fetch is skipped; the widget renders what it gets.
func (u *DashboardUsecase) Rates(ctx context.Context) ([]models.RateObservation, error) {
	key := cache.GenerateKey("dashboard", "rates")
	var cached []models.RateObservation
	if err := u.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	return u.RefreshRates(ctx)
}

// RefreshRates fetches all rate series and repopulates the cache.
func (u *DashboardUsecase) RefreshRates(ctx context.Context) ([]models.RateObservation, error) {
	out := make([]models.RateObservation, 0, len(rateSeries))
	for _, s := range rateSeries {
		value, delta, asOf, err := u.rates.GetLatest(ctx, s.ID)
		if err != nil {
			u.log.Warn("rate series fetch failed", logger.String("series", s.ID), logger.Error(err))
			continue
		}
		out = append(out, models.RateObservation{
			Series: s.ID,
			Label:  s.Label,
			Value:  value,
			Delta:  delta,
			AsOf:   asOf,
		})
	}
	if len(out) > 0 {
		if err := u.cache.Set(ctx, cache.GenerateKey("dashboard", "rates"), out, u.rateTTL); err != nil {
			u.log.Warn("rates cache set failed", logger.Error(err))
		}
	}
	return out, nil
}

// Spreads returns IG/HY index OAS in basis points. Provider values are in
// percent, scaled by 100 here.
func (u *DashboardUsecase) Spreads(ctx context.Context, withHistory bool) ([]models.SpreadLevel, error) {
	key := cache.GenerateKeyWithParams("dashboard", "spreads", withHistory)
	var cached []models.SpreadLevel
	if err := u.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	return u.RefreshSpreads(ctx, withHistory)
}

func (u *DashboardUsecase) RefreshSpreads(ctx context.Context, withHistory bool) ([]models.SpreadLevel, error) {
	out := make([]models.SpreadLevel, 0, len(spreadSeries))
	for _, s := range spreadSeries {
		value, delta, asOf, err := u.rates.GetLatest(ctx, s.ID)
		if err != nil {
			u.log.Warn("spread series fetch failed", logger.String("series", s.ID), logger.Error(err))
			continue
		}
		level := models.SpreadLevel{
			Series: s.ID,
			Label:  s.Label,
			Bps:    value * 100,
			Delta:  delta * 100,
			AsOf:   asOf,
		}
		if withHistory {
			to := time.Now().UTC()
			history, err := u.rates.GetSeries(ctx, s.ID, to.AddDate(-1, 0, 0), to)
			if err != nil {
				u.log.Warn("spread history fetch failed", logger.String("series", s.ID), logger.Error(err))
			} else {
				for i := range history {
					history[i].Close *= 100
				}
				level.History = history
			}
		}
		out = append(out, level)
	}
	if len(out) > 0 {
		key := cache.GenerateKeyWithParams("dashboard", "spreads", withHistory)
		if err := u.cache.Set(ctx, key, out, u.rateTTL); err != nil {
			u.log.Warn("spreads cache set failed", logger.Error(err))
		}
	}
	return out, nil
}

// News returns the cached top business headlines.
func (u *DashboardUsecase) News(ctx context.Context) ([]models.NewsArticle, error) {
	key := cache.GenerateKey("dashboard", "news")
	var cached []models.NewsArticle
	if err := u.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	return u.RefreshNews(ctx)
}

func (u *DashboardUsecase) RefreshNews(ctx context.Context) ([]models.NewsArticle, error) {
	articles, err := u.news.TopHeadlines(ctx, u.newsSize)
	if err != nil {
		return nil, err
	}
	if len(articles) > 0 {
		if err := u.cache.Set(ctx, cache.GenerateKey("dashboard", "news"), articles, u.newsTTL); err != nil {
			u.log.Warn("news cache set failed", logger.Error(err))
		}
	}
	return articles, nil
}
