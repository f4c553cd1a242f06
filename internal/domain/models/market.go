package models

import "time"

// Quote is a live price observation from the stream or a REST snapshot.
type Quote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the canonical shape every provider payload is normalized
// into at the ingestion boundary. May be empty when the provider failed or
// returned nothing; callers treat both the same.
type PriceSeries []PricePoint

func (s PriceSeries) Empty() bool { return len(s) == 0 }

// EODBar is a daily OHLCV record as stored in the price store.
type EODBar struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// RateObservation is the latest value of one treasury/money-market series
// with its one-period change.
type RateObservation struct {
	Series string    `json:"series"`
	Label  string    `json:"label"`
	Value  float64   `json:"value"`
	Delta  float64   `json:"delta"`
	AsOf   time.Time `json:"as_of"`
}

// SpreadLevel is a credit index OAS level in basis points.
type SpreadLevel struct {
	Series  string       `json:"series"`
	Label   string       `json:"label"`
	Bps     float64      `json:"bps"`
	Delta   float64      `json:"delta"`
	AsOf    time.Time    `json:"as_of"`
	History []PricePoint `json:"history,omitempty"`
}

type NewsArticle struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
