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

func tx(symbol string, action models.TradeAction, qty int64) models.Transaction {
	return models.Transaction{Symbol: symbol, Action: action, Quantity: qty, Price: decimal.NewFromInt(1)}
}

func TestResolveQuantities(t *testing.T) {
	tests := []struct {
		name string
		txs  []models.Transaction
		want map[string]int64
	}{
		{
			name: "accumulating buys",
			txs:  []models.Transaction{tx("AAPL", models.ActionBuy, 10), tx("AAPL", models.ActionBuy, 5)},
			want: map[string]int64{"AAPL": 15},
		},
		{
			name: "fully sold position disappears",
			txs:  []models.Transaction{tx("AAPL", models.ActionBuy, 10), tx("AAPL", models.ActionSell, 10)},
			want: map[string]int64{},
		},
		{
			name: "oversold position disappears",
			txs:  []models.Transaction{tx("AAPL", models.ActionBuy, 5), tx("AAPL", models.ActionSell, 8)},
			want: map[string]int64{},
		},
		{
			name: "mixed symbols",
			txs: []models.Transaction{
				tx("AAPL", models.ActionBuy, 10),
				tx("MSFT", models.ActionBuy, 3),
				tx("AAPL", models.ActionSell, 4),
			},
			want: map[string]int64{"AAPL": 6, "MSFT": 3},
		},
		{name: "empty", txs: nil, want: map[string]int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveQuantities(tt.txs))
		})
	}
}

func TestResolveQuantitiesOrderIndependent(t *testing.T) {
	forward := []models.Transaction{
		tx("AAPL", models.ActionBuy, 10),
		tx("AAPL", models.ActionSell, 3),
		tx("AAPL", models.ActionBuy, 2),
	}
	reversed := []models.Transaction{forward[2], forward[1], forward[0]}
	assert.Equal(t, ResolveQuantities(forward), ResolveQuantities(reversed))
}

func TestResolveQuantitiesNeverNonPositive(t *testing.T) {
	txs := []models.Transaction{
		tx("A", models.ActionBuy, 1),
		tx("A", models.ActionSell, 1),
		tx("B", models.ActionSell, 5),
		tx("C", models.ActionBuy, 2),
	}
	for symbol, qty := range ResolveQuantities(txs) {
		assert.Greater(t, qty, int64(0), "symbol %s", symbol)
	}
}

func TestSnapshotExcludesUnpricedSymbols(t *testing.T) {
	l := ledger.New()
	_, err := l.Record("AAPL", models.ActionBuy, 10, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = l.Record("ZZZZ", models.ActionBuy, 5, decimal.NewFromInt(10))
	require.NoError(t, err)

	u := NewHoldingsUsecase(fakeQuotes{"AAPL": 150}, testLogger(t))
	snap := u.Snapshot(context.Background(), l)

	require.Len(t, snap.Holdings, 1)
	assert.Equal(t, "AAPL", snap.Holdings[0].Symbol)
	assert.Equal(t, int64(10), snap.Holdings[0].Quantity)
	assert.True(t, snap.Holdings[0].MarketValue.Equal(decimal.NewFromInt(1500)))

	// The total is an undercount covering only priced symbols.
	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(1500)))
	require.Len(t, snap.Diagnostics, 1)
	assert.Equal(t, "ZZZZ", snap.Diagnostics[0].Symbol)
}

func TestSnapshotEmptyLedger(t *testing.T) {
	u := NewHoldingsUsecase(fakeQuotes{}, testLogger(t))
	snap := u.Snapshot(context.Background(), ledger.New())
	assert.Empty(t, snap.Holdings)
	assert.True(t, snap.TotalValue.IsZero())
	assert.Empty(t, snap.Diagnostics)
}
