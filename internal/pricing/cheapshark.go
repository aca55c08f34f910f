// Package pricing looks up current deal prices for games via the free
// CheapShark API. Pricing is best effort: any failure returns no prices
// rather than an error, so a slow pricing backend never blocks discovery.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://www.cheapshark.com/api/1.0"

	// Pricing is a nice-to-have on top of discovery results, so keep the
	// timeout tight enough that a stalled lookup barely delays the page.
	defaultTimeout = 2 * time.Second

	// CheapShark store ids. Steam is the only one surfaced by name.
	steamStoreID = "1"
)

// Client is a CheapShark price lookup client.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// New creates a new pricing client. baseURL overrides the public endpoint
// and may be empty.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:  logger,
		baseURL: baseURL,
	}
}

type searchResult struct {
	GameID   string `json:"gameID"`
	Cheapest string `json:"cheapest"`
}

type gameLookup struct {
	Deals []deal `json:"deals"`
}

type deal struct {
	StoreID string `json:"storeID"`
	Price   string `json:"price"`
}

// Prices returns known deal prices for a title, keyed by label ("Steam",
// "Best Deal"). A nil map means no price information was available.
func (c *Client) Prices(ctx context.Context, title string) map[string]string {
	results, err := c.search(ctx, title)
	if err != nil || len(results) == 0 {
		if err != nil {
			c.logger.Debug("price search failed", "title", title, "error", err)
		}
		return nil
	}

	deals, err := c.lookupDeals(ctx, results[0].GameID)
	if err != nil {
		c.logger.Debug("price lookup failed", "title", title, "error", err)
		return nil
	}
	if len(deals) == 0 {
		return nil
	}

	prices := make(map[string]string)
	for _, d := range deals {
		if d.StoreID == steamStoreID {
			if _, err := strconv.ParseFloat(d.Price, 64); err == nil {
				prices["Steam"] = d.Price
			}
			break
		}
	}

	// A deal whose price does not parse carries no usable price and never
	// becomes the best deal.
	var best *deal
	var bestPrice float64
	for i, d := range deals {
		p, err := strconv.ParseFloat(d.Price, 64)
		if err != nil {
			c.logger.Debug("skipping malformed deal price", "title", title, "price", d.Price)
			continue
		}
		if best == nil || p < bestPrice {
			best, bestPrice = &deals[i], p
		}
	}
	if best != nil {
		prices["Best Deal"] = best.Price
	}

	if len(prices) == 0 {
		return nil
	}
	return prices
}

func (c *Client) search(ctx context.Context, title string) ([]searchResult, error) {
	u := fmt.Sprintf("%s/games?title=%s&limit=1", c.baseURL, url.QueryEscape(title))
	data, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var results []searchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return results, nil
}

func (c *Client) lookupDeals(ctx context.Context, gameID string) ([]deal, error) {
	u := fmt.Sprintf("%s/games?id=%s", c.baseURL, url.QueryEscape(gameID))
	data, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var lookup gameLookup
	if err := json.Unmarshal(data, &lookup); err != nil {
		return nil, fmt.Errorf("parse lookup response: %w", err)
	}
	return lookup.Deals, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
