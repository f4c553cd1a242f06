package models

// Requests for portfolio and market HTTP endpoints. Defined in domain for
// consistency and reuse.

type TradeRequest struct {
	Symbol   string `json:"symbol" validate:"required,min=1,max=12"`
	Action   string `json:"action" validate:"required,oneof=buy sell"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// Window values are not validated here: unknown windows normalize to the
// default downstream. Benchmark is optional; empty skips the comparison.

type PerformanceRequest struct {
	Window    string `query:"window" json:"window" default:"1y"`
	Benchmark string `query:"benchmark" json:"benchmark" validate:"max=12"`
}

type SeriesRequest struct {
	Window string `query:"window" json:"window" default:"1y"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Window string `query:"window" json:"window" default:"6m"`
}

type QuoteRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type SpreadsRequest struct {
	History bool `query:"history" json:"history" default:"false"`
}
