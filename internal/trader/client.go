package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"main/internal/model"
)

// TradeRequest is the portfolio service's trade request body.
type TradeRequest struct {
	Amount int64       `json:"amount"`
	Quote  model.Quote `json:"quote"`
}

type errorBody struct {
	Message string `json:"message"`
}

// HTTPPortfolioClient talks to the portfolio service REST API.
type HTTPPortfolioClient struct {
	http *resty.Client
}

// NewHTTPPortfolioClient creates a client for the given base URL.
func NewHTTPPortfolioClient(baseURL string, timeout time.Duration) (*HTTPPortfolioClient, error) {
	if baseURL == "" {
		return nil, errors.New("portfolio endpoint not configured")
	}
	c := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &HTTPPortfolioClient{http: c}, nil
}

// Buy posts a buy order.
func (c *HTTPPortfolioClient) Buy(ctx context.Context, amount int64, quote model.Quote) (model.Portfolio, error) {
	return c.trade(ctx, "/buy", amount, quote)
}

// Sell posts a sell order.
func (c *HTTPPortfolioClient) Sell(ctx context.Context, amount int64, quote model.Quote) (model.Portfolio, error) {
	return c.trade(ctx, "/sell", amount, quote)
}

func (c *HTTPPortfolioClient) trade(ctx context.Context, path string, amount int64, quote model.Quote) (model.Portfolio, error) {
	var (
		portfolio model.Portfolio
		failure   errorBody
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(TradeRequest{Amount: amount, Quote: quote}).
		SetResult(&portfolio).
		SetError(&failure).
		Post(path)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("post %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		if failure.Message != "" {
			return model.Portfolio{}, errors.New(failure.Message)
		}
		return model.Portfolio{}, fmt.Errorf("post %s: status %d", path, resp.StatusCode())
	}
	return portfolio, nil
}
