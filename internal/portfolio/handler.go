// Package portfolio exposes the ledger and valuation engine over HTTP.
package portfolio

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"main/internal/ledger"
	"main/internal/model"
	"main/internal/valuation"
)

// TradeRequest is the body of buy and sell requests.
type TradeRequest struct {
	Amount int64       `json:"amount"`
	Quote  model.Quote `json:"quote"`
}

// Evaluator computes the current total holdings value.
type Evaluator interface {
	Evaluate(ctx context.Context) (decimal.Decimal, error)
}

// Handler serves the portfolio REST API.
type Handler struct {
	ledger    *ledger.Ledger
	evaluator Evaluator
}

// NewHandler creates a handler over the ledger and valuation engine.
func NewHandler(l *ledger.Ledger, evaluator Evaluator) *Handler {
	return &Handler{ledger: l, evaluator: evaluator}
}

// Register mounts the API on the router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/portfolio", h.handlePortfolio)
	router.POST("/buy", h.handleBuy)
	router.POST("/sell", h.handleSell)
	router.GET("/evaluate", h.handleEvaluate)
}

func (h *Handler) handlePortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Snapshot())
}

func (h *Handler) handleBuy(c *gin.Context) {
	h.handleTrade(c, h.ledger.Buy)
}

func (h *Handler) handleSell(c *gin.Context) {
	h.handleTrade(c, h.ledger.Sell)
}

func (h *Handler) handleTrade(c *gin.Context, trade func(int64, model.Quote) (model.Portfolio, error)) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	portfolio, err := trade(req.Amount, req.Quote)
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (h *Handler) handleEvaluate(c *gin.Context) {
	value, err := h.evaluator.Evaluate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// tradeStatus maps ledger validation failures to client errors.
func tradeStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings),
		errors.Is(err, ledger.ErrInsufficientLiquidity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var _ Evaluator = (*valuation.Engine)(nil)
