package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/ledger"
	"FinDeck/pkg/logger"
)

var (
	// ErrPriceUnavailable means the trade cannot execute because no current
	// price could be obtained for the symbol.
	ErrPriceUnavailable = errors.New("current price unavailable")

	// ErrInsufficientShares means a sell was submitted for a symbol with no
	// net position.
	ErrInsufficientShares = errors.New("no shares held to sell")
)

// TradeUsecase executes simulated trades against a session ledger. The
// sufficient-shares check for sells lives here, on the caller side of the
// ledger contract: sell quantities are capped at the held amount and a sell
// with no position is rejected before anything is recorded.
type TradeUsecase struct {
	quotes  drepo.QuoteSource
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewTradeUsecase(quotes drepo.QuoteSource, metrics drepo.Metrics, log *logger.Logger) *TradeUsecase {
	return &TradeUsecase{quotes: quotes, metrics: metrics, log: log}
}

func (u *TradeUsecase) Execute(ctx context.Context, l *ledger.Ledger, req models.TradeRequest) (models.Transaction, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	action := models.TradeAction(req.Action)

	quote, ok := u.quotes.GetCurrentPrice(ctx, symbol)
	if !ok {
		u.metrics.RecordError("trade_price")
		return models.Transaction{}, ErrPriceUnavailable
	}

	quantity := req.Quantity
	if action == models.ActionSell {
		held := ResolveQuantities(l.Transactions())[symbol]
		if held <= 0 {
			return models.Transaction{}, ErrInsufficientShares
		}
		if quantity > held {
			quantity = held
		}
	}

	tx, err := l.Record(symbol, action, quantity, decimal.NewFromFloat(quote.Price))
	if err != nil {
		return models.Transaction{}, err
	}

	u.metrics.RecordTrade(string(action))
	u.log.Info("trade recorded",
		logger.String("symbol", symbol),
		logger.String("action", string(action)),
		logger.Int64("quantity", quantity))
	return tx, nil
}
