package news

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

// Client reads top business headlines from a NewsAPI-style endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	country  string
	category string
	http     *pkghttp.Client
	log      *logger.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		country:  "us",
		category: "business",
		http:     pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		log:      log,
	}
}

type headlinesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (c *Client) TopHeadlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = 5
	}

	var resp headlinesResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/top-headlines", c.baseURL),
		Headers: map[string]string{
			"X-Api-Key": c.apiKey,
		},
		QueryParams: map[string][]string{
			"country":  {c.country},
			"category": {c.category},
			"pageSize": {strconv.Itoa(limit)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("top headlines: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("top headlines: status %q", resp.Status)
	}

	out := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		out = append(out, models.NewsArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}

var _ drepo.NewsSource = (*Client)(nil)
