package jobs

import (
	"context"

	"FinDeck/internal/usecase"
	"FinDeck/pkg/logger"
)

// Message types routed through the queue.
const (
	TypeRefreshRates   = "dashboard.refresh_rates"
	TypeRefreshSpreads = "dashboard.refresh_spreads"
	TypeRefreshNews    = "dashboard.refresh_news"
)

// RefreshRatesJob re-fetches policy and treasury rates into the cache.
type RefreshRatesJob struct {
	dash *usecase.DashboardUsecase
	log  *logger.Logger
}

func NewRefreshRatesJob(dash *usecase.DashboardUsecase, log *logger.Logger) *RefreshRatesJob {
	return &RefreshRatesJob{dash: dash, log: log}
}

func (j *RefreshRatesJob) Name() string { return "refresh-rates" }
func (j *RefreshRatesJob) Type() string { return TypeRefreshRates }

func (j *RefreshRatesJob) Handle(ctx context.Context, _ interface{}) error {
	rates, err := j.dash.RefreshRates(ctx)
	if err != nil {
		return err
	}
	j.log.Info("rates cache refreshed", logger.Int("series", len(rates)))
	return nil
}

// RefreshSpreadsJob re-fetches credit spread levels into the cache.
// Both the level-only and with-history variants are repopulated.
type RefreshSpreadsJob struct {
	dash *usecase.DashboardUsecase
	log  *logger.Logger
}

func NewRefreshSpreadsJob(dash *usecase.DashboardUsecase, log *logger.Logger) *RefreshSpreadsJob {
	return &RefreshSpreadsJob{dash: dash, log: log}
}

func (j *RefreshSpreadsJob) Name() string { return "refresh-spreads" }
func (j *RefreshSpreadsJob) Type() string { return TypeRefreshSpreads }

func (j *RefreshSpreadsJob) Handle(ctx context.Context, _ interface{}) error {
	if _, err := j.dash.RefreshSpreads(ctx, false); err != nil {
		return err
	}
	spreads, err := j.dash.RefreshSpreads(ctx, true)
	if err != nil {
		return err
	}
	j.log.Info("spreads cache refreshed", logger.Int("series", len(spreads)))
	return nil
}

// RefreshNewsJob re-fetches business headlines into the cache.
type RefreshNewsJob struct {
	dash *usecase.DashboardUsecase
	log  *logger.Logger
}

func NewRefreshNewsJob(dash *usecase.DashboardUsecase, log *logger.Logger) *RefreshNewsJob {
	return &RefreshNewsJob{dash: dash, log: log}
}

func (j *RefreshNewsJob) Name() string { return "refresh-news" }
func (j *RefreshNewsJob) Type() string { return TypeRefreshNews }

func (j *RefreshNewsJob) Handle(ctx context.Context, _ interface{}) error {
	articles, err := j.dash.RefreshNews(ctx)
	if err != nil {
		return err
	}
	j.log.Info("news cache refreshed", logger.Int("articles", len(articles)))
	return nil
}
