package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/ledger"
	"FinDeck/pkg/logger"
)

// HoldingsUsecase folds a ledger into net share counts and values them
// against the current-price collaborator.
type HoldingsUsecase struct {
	quotes drepo.QuoteSource
	log    *logger.Logger
}

func NewHoldingsUsecase(quotes drepo.QuoteSource, log *logger.Logger) *HoldingsUsecase {
	return &HoldingsUsecase{quotes: quotes, log: log}
}

// ResolveQuantities is the signed-sum fold over the transaction history:
// buys add, sells subtract, and only symbols with a strictly positive net
// quantity survive. The fold is commutative, so the result does not depend
// on transaction order.
func ResolveQuantities(txs []models.Transaction) map[string]int64 {
	net := make(map[string]int64)
	for _, tx := range txs {
		switch tx.Action {
		case models.ActionBuy:
			net[tx.Symbol] += tx.Quantity
		case models.ActionSell:
			net[tx.Symbol] -= tx.Quantity
		}
	}
	for symbol, qty := range net {
		if qty <= 0 {
			delete(net, symbol)
		}
	}
	return net
}

// Snapshot values the current holdings. A symbol whose price cannot be
// obtained is excluded from the snapshot and reported as a diagnostic;
// the total is a documented undercount in that case, not an error.
func (u *HoldingsUsecase) Snapshot(ctx context.Context, l *ledger.Ledger) models.HoldingsSnapshot {
	net := ResolveQuantities(l.Transactions())

	symbols := make([]string, 0, len(net))
	for s := range net {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	snap := models.HoldingsSnapshot{Holdings: []models.Holding{}, TotalValue: decimal.Zero}
	for _, symbol := range symbols {
		q, ok := u.quotes.GetCurrentPrice(ctx, symbol)
		if !ok {
			u.log.Warn("no current price for holding", logger.String("symbol", symbol))
			snap.Diagnostics = append(snap.Diagnostics, models.Diagnostic{
				Symbol: symbol,
				Reason: "current price unavailable",
			})
			continue
		}
		price := decimal.NewFromFloat(q.Price)
		h := models.Holding{
			Symbol:       symbol,
			Quantity:     net[symbol],
			CurrentPrice: price,
			MarketValue:  price.Mul(decimal.NewFromInt(net[symbol])),
		}
		snap.Holdings = append(snap.Holdings, h)
		snap.TotalValue = snap.TotalValue.Add(h.MarketValue)
	}
	return snap
}
