package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
	"FinDeck/internal/ledger"
)

func newTrade(t *testing.T, quotes fakeQuotes) *TradeUsecase {
	t.Helper()
	return NewTradeUsecase(quotes, noopMetrics{}, testLogger(t))
}

func TestExecuteBuy(t *testing.T) {
	u := newTrade(t, fakeQuotes{"AAPL": 150.5})
	l := ledger.New()

	tx, err := u.Execute(context.Background(), l, models.TradeRequest{Symbol: "aapl ", Action: "buy", Quantity: 10})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", tx.Symbol, "symbol is normalized")
	assert.Equal(t, models.ActionBuy, tx.Action)
	assert.Equal(t, int64(10), tx.Quantity)
	assert.True(t, tx.Price.Equal(decimal.NewFromFloat(150.5)))
	assert.True(t, tx.Value.Equal(decimal.NewFromInt(1505)))
	assert.Equal(t, 1, l.Len())
}

func TestExecuteSellCappedAtHeldQuantity(t *testing.T) {
	u := newTrade(t, fakeQuotes{"AAPL": 100})
	l := ledger.New()

	_, err := u.Execute(context.Background(), l, models.TradeRequest{Symbol: "AAPL", Action: "buy", Quantity: 10})
	require.NoError(t, err)

	tx, err := u.Execute(context.Background(), l, models.TradeRequest{Symbol: "AAPL", Action: "sell", Quantity: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(10), tx.Quantity, "sell is capped at the held amount")

	assert.Empty(t, ResolveQuantities(l.Transactions()))
}

func TestExecuteSellWithoutPosition(t *testing.T) {
	u := newTrade(t, fakeQuotes{"AAPL": 100})
	l := ledger.New()

	_, err := u.Execute(context.Background(), l, models.TradeRequest{Symbol: "AAPL", Action: "sell", Quantity: 5})
	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.Zero(t, l.Len())
}

func TestExecutePriceUnavailable(t *testing.T) {
	u := newTrade(t, fakeQuotes{})
	l := ledger.New()

	_, err := u.Execute(context.Background(), l, models.TradeRequest{Symbol: "AAPL", Action: "buy", Quantity: 5})
	assert.ErrorIs(t, err, ErrPriceUnavailable)
	assert.Zero(t, l.Len())
}
