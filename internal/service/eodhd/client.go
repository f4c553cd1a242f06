package eodhd

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/service/ratelimit"
	pkghttp "FinDeck/pkg/http"
	"FinDeck/pkg/logger"
)

// Client talks to an EODHD-style market data API. It serves daily close
// history and real-time quote snapshots.
type Client struct {
	apiKey    string
	baseURL   string
	http      *pkghttp.Client
	limiter   *ratelimit.Limiter
	rateCap   float64
	ratePerSc float64
	log       *logger.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, requestsPerSec float64, log *logger.Logger) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		http:      pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		limiter:   ratelimit.New(),
		rateCap:   requestsPerSec,
		ratePerSc: requestsPerSec,
		log:       log,
	}
}

// flexFloat64 tolerates provider payloads where numbers arrive as strings
// or as the literal "NA".
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "NA" || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat64(v)
	return nil
}

type eodRow struct {
	Date          string      `json:"date"`
	Close         flexFloat64 `json:"close"`
	AdjustedClose flexFloat64 `json:"adjusted_close"`
}

// GetPriceHistory fetches the daily close series and normalizes it into the
// canonical PriceSeries shape. Adjusted closes are preferred when present.
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var rows []eodRow
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/eod/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"api_token": {c.apiKey},
			"fmt":       {"json"},
			"period":    {"d"},
			"from":      {from.Format("2006-01-02")},
			"to":        {to.Format("2006-01-02")},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("eod history %s: %w", symbol, err)
	}

	series := make(models.PriceSeries, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		px := float64(row.AdjustedClose)
		if px <= 0 {
			px = float64(row.Close)
		}
		if px <= 0 {
			continue
		}
		series = append(series, models.PricePoint{Date: date.UTC(), Close: px})
	}
	return series, nil
}

type realTimeRow struct {
	Code      string      `json:"code"`
	Timestamp int64       `json:"timestamp"`
	Close     flexFloat64 `json:"close"`
	Volume    flexFloat64 `json:"volume"`
}

// GetCurrentPrice fetches a real-time snapshot. Absence (provider error,
// "NA" close) is reported through the bool, never as an error.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (models.Quote, bool) {
	if err := c.wait(ctx); err != nil {
		return models.Quote{}, false
	}

	var row realTimeRow
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/real-time/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"api_token": {c.apiKey},
			"fmt":       {"json"},
		},
	}, &row)
	if err != nil {
		c.log.Warn("real-time quote failed", logger.String("symbol", symbol), logger.Error(err))
		return models.Quote{}, false
	}
	if row.Close <= 0 {
		return models.Quote{}, false
	}

	ts := time.Now().UTC()
	if row.Timestamp > 0 {
		ts = time.Unix(row.Timestamp, 0).UTC()
	}
	return models.Quote{
		Symbol:    symbol,
		Price:     float64(row.Close),
		Volume:    float64(row.Volume),
		Timestamp: ts,
	}, true
}

// wait blocks until the client-side rate budget admits one request.
func (c *Client) wait(ctx context.Context) error {
	for !c.limiter.Allow("eodhd", c.rateCap, c.ratePerSc) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

var (
	_ drepo.PriceHistorySource = (*Client)(nil)
	_ drepo.QuoteSource        = (*Client)(nil)
)
