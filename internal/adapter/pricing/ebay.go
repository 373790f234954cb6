// Package pricing implements domain.PriceSource against the sold-listings
// price service (a small HTTP function that searches completed eBay
// listings and returns median/min/max statistics).
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

const cacheTTL = 60 * time.Second

type cachedEstimate struct {
	estimate domain.MarketEstimate
	fetched  time.Time
}

// Client queries the price service. Results are cached briefly so a batch
// refresh does not hammer the service with duplicate queries.
type Client struct {
	url   string
	cli   *http.Client
	mu    sync.RWMutex
	cache map[string]cachedEstimate
}

// NewClient creates a price service client for the given endpoint URL
func NewClient(url string) *Client {
	return &Client{
		url:   url,
		cli:   &http.Client{Timeout: 10 * time.Second},
		cache: make(map[string]cachedEstimate),
	}
}

// Lookup fetches a market estimate for a free-text query.
// The wire shape is the price service's response verbatim:
// {median, min, max, salesCount, updatedAt}.
func (c *Client) Lookup(ctx context.Context, query string) (*domain.MarketEstimate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrNoMarketQuery
	}

	c.mu.RLock()
	if cached, ok := c.cache[query]; ok && time.Since(cached.fetched) < cacheTTL {
		c.mu.RUnlock()
		estimate := cached.estimate
		return &estimate, nil
	}
	c.mu.RUnlock()

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var raw struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&raw)
		if raw.Error != "" {
			return nil, fmt.Errorf("price service: %s", raw.Error)
		}
		return nil, fmt.Errorf("price service http %d", resp.StatusCode)
	}

	var raw struct {
		Median     float64   `json:"median"`
		Min        float64   `json:"min"`
		Max        float64   `json:"max"`
		SalesCount int       `json:"salesCount"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.SalesCount == 0 {
		return nil, fmt.Errorf("price service: no sold items for %q", query)
	}

	estimate := domain.MarketEstimate{
		Median:     decimal.NewFromFloat(raw.Median),
		Min:        decimal.NewFromFloat(raw.Min),
		Max:        decimal.NewFromFloat(raw.Max),
		SalesCount: raw.SalesCount,
		UpdatedAt:  raw.UpdatedAt,
	}
	if estimate.UpdatedAt.IsZero() {
		estimate.UpdatedAt = time.Now()
	}

	c.mu.Lock()
	c.cache[query] = cachedEstimate{estimate: estimate, fetched: time.Now()}
	c.mu.Unlock()

	return &estimate, nil
}
