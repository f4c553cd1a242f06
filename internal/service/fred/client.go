package fred

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FinDeck/internal/domain/models"
	drepo "FinDeck/internal/domain/repository"
	pkghttp "FinDeck/pkg/http"
	"FinDeck/pkg/logger"
)

// Client reads macro series observations from a FRED-style API.
type Client struct {
	apiKey  string
	baseURL string
	http    *pkghttp.Client
	log     *logger.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		log:     log,
	}
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

// GetLatest returns the newest observation of a series and its one-period
// change. Missing prints (the provider publishes "." on holidays) are
// skipped.
func (c *Client) GetLatest(ctx context.Context, series string) (float64, float64, time.Time, error) {
	obs, err := c.fetch(ctx, series, map[string][]string{
		"sort_order": {"desc"},
		"limit":      {"10"},
	})
	if err != nil {
		return 0, 0, time.Time{}, err
	}

	var (
		values []float64
		asOf   time.Time
	)
	for _, o := range obs {
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue // "." placeholder
		}
		if len(values) == 0 {
			if d, err := time.Parse("2006-01-02", o.Date); err == nil {
				asOf = d.UTC()
			}
		}
		values = append(values, v)
		if len(values) == 2 {
			break
		}
	}
	if len(values) == 0 {
		return 0, 0, time.Time{}, fmt.Errorf("series %s: no observations", series)
	}
	delta := 0.0
	if len(values) == 2 {
		delta = values[0] - values[1]
	}
	return values[0], delta, asOf, nil
}

// GetSeries returns a date range of observations as a PriceSeries.
func (c *Client) GetSeries(ctx context.Context, series string, from, to time.Time) (models.PriceSeries, error) {
	obs, err := c.fetch(ctx, series, map[string][]string{
		"sort_order":        {"asc"},
		"observation_start": {from.Format("2006-01-02")},
		"observation_end":   {to.Format("2006-01-02")},
	})
	if err != nil {
		return nil, err
	}

	out := make(models.PriceSeries, 0, len(obs))
	for _, o := range obs {
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		d, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		out = append(out, models.PricePoint{Date: d.UTC(), Close: v})
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, series string, params map[string][]string) ([]observation, error) {
	query := map[string][]string{
		"series_id": {series},
		"api_key":   {c.apiKey},
		"file_type": {"json"},
	}
	for k, v := range params {
		query[k] = v
	}

	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/series/observations", c.baseURL),
		QueryParams: query,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch series %s: %w", series, err)
	}
	return resp.Observations, nil
}

var _ drepo.RateSource = (*Client)(nil)
