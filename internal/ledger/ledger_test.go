package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDeck/internal/domain/models"
)

func TestRecordAppendsInOrder(t *testing.T) {
	l := New()

	first, err := l.Record("AAPL", models.ActionBuy, 10, decimal.NewFromInt(100))
	require.NoError(t, err)
	second, err := l.Record("MSFT", models.ActionBuy, 5, decimal.NewFromInt(300))
	require.NoError(t, err)

	txs := l.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, first.ID, txs[0].ID)
	assert.Equal(t, second.ID, txs[1].ID)
	assert.Equal(t, "AAPL", txs[0].Symbol)
	assert.True(t, txs[0].Value.Equal(decimal.NewFromInt(1000)))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecordRejectsContractViolations(t *testing.T) {
	l := New()
	price := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		action   models.TradeAction
		quantity int64
		price    decimal.Decimal
	}{
		{name: "zero quantity", action: models.ActionBuy, quantity: 0, price: price},
		{name: "negative quantity", action: models.ActionBuy, quantity: -5, price: price},
		{name: "zero price", action: models.ActionBuy, quantity: 1, price: decimal.Zero},
		{name: "negative price", action: models.ActionSell, quantity: 1, price: decimal.NewFromInt(-1)},
		{name: "unknown action", action: models.TradeAction("short"), quantity: 1, price: price},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Record("AAPL", tt.action, tt.quantity, tt.price)
			assert.Error(t, err)
		})
	}
	assert.Zero(t, l.Len(), "rejected trades must not be appended")
}

func TestRecordAllowsOversell(t *testing.T) {
	// Sufficient-shares checking belongs to the caller, not the ledger.
	l := New()
	_, err := l.Record("AAPL", models.ActionSell, 100, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestTransactionsReturnsCopy(t *testing.T) {
	l := New()
	_, err := l.Record("AAPL", models.ActionBuy, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	txs := l.Transactions()
	txs[0].Symbol = "mutated"
	assert.Equal(t, "AAPL", l.Transactions()[0].Symbol)
}

func TestRegistrySessionIsolation(t *testing.T) {
	r := NewRegistry(time.Hour, 0)
	defer r.Close()

	idA, a := r.Get("")
	idB, b := r.Get("")
	require.NotEqual(t, idA, idB)

	_, err := a.Record("AAPL", models.ActionBuy, 10, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Zero(t, b.Len())

	_, again := r.Get(idA)
	assert.Same(t, a, again)
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute, 0)
	defer r.Close()

	id, _ := r.Get("")
	require.Equal(t, 1, r.Len())

	r.evict(time.Now().Add(2 * time.Minute))
	assert.Zero(t, r.Len())

	// An evicted ID comes back as a fresh, empty session.
	_, l := r.Get(id)
	assert.Zero(t, l.Len())
}
