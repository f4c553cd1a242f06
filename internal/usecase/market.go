package usecase

import (
	"context"
	"strings"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/pkg/logger"
	"FinDeck/pkg/util"
)

// MarketUsecase serves the trade panel's price chart and quote lookups.
type MarketUsecase struct {
	history drepo.PriceHistorySource
	quotes  drepo.QuoteSource
	log     *logger.Logger
}

func NewMarketUsecase(history drepo.PriceHistorySource, quotes drepo.QuoteSource, log *logger.Logger) *MarketUsecase {
	return &MarketUsecase{history: history, quotes: quotes, log: log}
}

// History returns the close series for one symbol over the window. An empty
// result is not an error; the caller renders "no data".
func (u *MarketUsecase) History(ctx context.Context, symbol string, window drepo.Window) (models.PriceSeries, error) {
	to := time.Now().UTC()
	return u.HistoryRange(ctx, symbol, window.Start(to), to)
}

// HistoryRange returns the close series for an explicit date range.
func (u *MarketUsecase) HistoryRange(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	from, to = util.AlignDayRange(from, to)
	series, err := u.history.GetPriceHistory(ctx, symbol, from, to)
	if err != nil {
		u.log.Warn("history fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil, err
	}
	return series, nil
}

func (u *MarketUsecase) Quote(ctx context.Context, symbol string) (models.Quote, bool) {
	return u.quotes.GetCurrentPrice(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}
