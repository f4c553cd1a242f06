package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"FinDeck/internal/domain/models"
)

// Ledger is an append-only, time-ordered record of trade events and the
// single source of truth for ownership. It never rejects an oversell;
// checking for sufficient shares is the caller's contract. Appends and
// reads are mutex-guarded because HTTP handlers run concurrently.
type Ledger struct {
	mu           sync.RWMutex
	transactions []models.Transaction
}

func New() *Ledger {
	return &Ledger{}
}

// Record validates the caller contract (positive quantity, positive price,
// known action) and appends the event with a capture timestamp. Violations
// are programmer errors, not data conditions.
func (l *Ledger) Record(symbol string, action models.TradeAction, quantity int64, price decimal.Decimal) (models.Transaction, error) {
	if quantity <= 0 {
		return models.Transaction{}, fmt.Errorf("record %s: quantity must be positive, got %d", symbol, quantity)
	}
	if price.Sign() <= 0 {
		return models.Transaction{}, fmt.Errorf("record %s: price must be positive, got %s", symbol, price)
	}
	if action != models.ActionBuy && action != models.ActionSell {
		return models.Transaction{}, fmt.Errorf("record %s: unknown action %q", symbol, action)
	}

	tx := models.Transaction{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Action:    action,
		Quantity:  quantity,
		Price:     price,
		Value:     price.Mul(decimal.NewFromInt(quantity)),
	}

	l.mu.Lock()
	l.transactions = append(l.transactions, tx)
	l.mu.Unlock()
	return tx, nil
}

// Transactions returns a copy of the ledger in insertion order, which is
// chronological order by construction.
func (l *Ledger) Transactions() []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}
