// Package pricing is the HTTP client side of the quote generator's
// REST API.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"main/internal/model"
)

// ErrNoEndpoint reports that no quote endpoint was configured.
var ErrNoEndpoint = errors.New("quote endpoint not configured")

// Client fetches quotes from the quote generator.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given base URL. timeout bounds
// every request; zero leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoEndpoint
	}
	c := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c}, nil
}

// Quote returns the last quote for a company.
func (c *Client) Quote(ctx context.Context, name string) (model.Quote, error) {
	var quote model.Quote
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		SetResult(&quote).
		Get("/")
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote for %s: %w", name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.Quote{}, fmt.Errorf("fetch quote for %s: status %d", name, resp.StatusCode())
	}
	return quote, nil
}

// Bid returns the last bid price for a company.
func (c *Client) Bid(ctx context.Context, name string) (decimal.Decimal, error) {
	quote, err := c.Quote(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Bid, nil
}
