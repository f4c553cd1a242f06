package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Transaction is an immutable ledger event. Created once by a trade, never
// mutated or deleted afterwards.
type Transaction struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Symbol    string          `json:"symbol"`
	Action    TradeAction     `json:"action"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"` // quantity * price at capture time
}

// Holding is derived from the full transaction history, never stored.
// Quantity is always > 0; a symbol that nets to zero or below is absent.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
}

// HoldingsSnapshot is the valued holdings view. TotalValue sums only the
// symbols that priced successfully; unpriced symbols appear in Diagnostics.
type HoldingsSnapshot struct {
	Holdings    []Holding       `json:"holdings"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty"`
}

// Diagnostic reports a non-fatal per-symbol data problem.
type Diagnostic struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ValueSeries is a date-indexed portfolio value curve. An empty series means
// no analytics are possible, which is a different state from a series that
// is flat at zero.
type ValueSeries []ValuePoint

func (s ValueSeries) Empty() bool { return len(s) == 0 }

func (s ValueSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// PerformanceMetrics is always fully populated. Degenerate inputs produce
// the all-zero sentinel instead of an error.
type PerformanceMetrics struct {
	CAGR                 float64 `json:"cagr"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
}

// AssetRiskReturn is one point on the risk/return chart. Assets with fewer
// than 2 price observations are dropped from this view entirely.
type AssetRiskReturn struct {
	Symbol       string  `json:"symbol"`
	AnnualReturn float64 `json:"annual_return"`
	AnnualVol    float64 `json:"annual_vol"`
}

// BenchmarkComparison holds the portfolio and benchmark curves rebased to
// 100 on their first common date, plus the portfolio beta versus the
// benchmark.
type BenchmarkComparison struct {
	Symbol    string      `json:"symbol"`
	Portfolio ValueSeries `json:"portfolio"`
	Benchmark ValueSeries `json:"benchmark"`
	Beta      float64     `json:"beta"`
}

type PerformanceReport struct {
	Metrics     PerformanceMetrics   `json:"metrics"`
	ValueSeries ValueSeries          `json:"value_series"`
	RiskReturn  []AssetRiskReturn    `json:"per_asset_risk_return"`
	Benchmark   *BenchmarkComparison `json:"benchmark_comparison,omitempty"`
	Diagnostics []Diagnostic         `json:"diagnostics,omitempty"`
}

// ChartSeries is the label/value shape the dashboard charts consume.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
}
