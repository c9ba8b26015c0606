// Package ledger owns the portfolio and validates every trade against
// it. It is the only writer of portfolio state in the platform.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/events"
	"main/internal/model"
	"main/internal/obs"
)

var (
	ErrInvalidAmount         = errors.New("amount must be greater than 0")
	ErrInsufficientLiquidity = errors.New("not enough shares on the market")
	ErrInsufficientFunds     = errors.New("not enough money")
	ErrInsufficientHoldings  = errors.New("not enough shares in portfolio")
)

// Ledger serializes all trades against a single portfolio. Validation
// and mutation happen as one step under the lock, so concurrent callers
// never observe a half-applied trade.
type Ledger struct {
	mu        sync.Mutex
	portfolio model.Portfolio

	publisher events.Publisher
	metrics   *obs.Metrics
	now       func() time.Time
}

// New creates a ledger with the given cash endowment.
func New(initialCash decimal.Decimal, publisher events.Publisher, metrics *obs.Metrics) *Ledger {
	return &Ledger{
		portfolio: model.NewPortfolio(initialCash),
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Buy purchases amount shares at the quote's ask price. The liquidity
// check runs before the funds check; that ordering is part of the
// contract.
func (l *Ledger) Buy(amount int64, quote model.Quote) (model.Portfolio, error) {
	started := time.Now()
	if amount <= 0 {
		l.metrics.IncTradeFailure()
		return model.Portfolio{}, fmt.Errorf("cannot buy %s: %w", quote.Name, ErrInvalidAmount)
	}
	if quote.Shares < amount {
		l.metrics.IncTradeFailure()
		return model.Portfolio{}, fmt.Errorf("cannot buy %d of %s, only %d on the market: %w",
			amount, quote.Name, quote.Shares, ErrInsufficientLiquidity)
	}

	price := quote.Ask.Mul(decimal.NewFromInt(amount))

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.portfolio.Cash.LessThan(price) {
		l.metrics.IncTradeFailure()
		return model.Portfolio{}, fmt.Errorf("cannot buy %d of %s, need %s but has %s: %w",
			amount, quote.Name, price, l.portfolio.Cash, ErrInsufficientFunds)
	}

	l.portfolio.Cash = l.portfolio.Cash.Sub(price)
	owned := l.portfolio.Holdings[quote.Name] + amount
	l.portfolio.Holdings[quote.Name] = owned
	snapshot := l.portfolio.Clone()

	l.publish(model.TradeActionBuy, amount, quote, owned)
	l.metrics.IncTrade()
	l.metrics.ObserveTrade(time.Since(started))
	return snapshot, nil
}

// Sell releases amount shares at the quote's bid price. A holding that
// reaches zero is removed from the portfolio entirely.
func (l *Ledger) Sell(amount int64, quote model.Quote) (model.Portfolio, error) {
	started := time.Now()
	if amount <= 0 {
		l.metrics.IncTradeFailure()
		return model.Portfolio{}, fmt.Errorf("cannot sell %s: %w", quote.Name, ErrInvalidAmount)
	}

	proceeds := quote.Bid.Mul(decimal.NewFromInt(amount))

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.portfolio.Holdings[quote.Name]
	if current < amount {
		l.metrics.IncTradeFailure()
		return model.Portfolio{}, fmt.Errorf("cannot sell %d of %s, only %d in portfolio: %w",
			amount, quote.Name, current, ErrInsufficientHoldings)
	}

	owned := current - amount
	if owned == 0 {
		delete(l.portfolio.Holdings, quote.Name)
	} else {
		l.portfolio.Holdings[quote.Name] = owned
	}
	l.portfolio.Cash = l.portfolio.Cash.Add(proceeds)
	snapshot := l.portfolio.Clone()

	l.publish(model.TradeActionSell, amount, quote, owned)
	l.metrics.IncTrade()
	l.metrics.ObserveTrade(time.Since(started))
	return snapshot, nil
}

// Snapshot returns a copy of the current portfolio state.
func (l *Ledger) Snapshot() model.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.portfolio.Clone()
}

func (l *Ledger) publish(action model.TradeAction, amount int64, quote model.Quote, owned int64) {
	if l.publisher == nil {
		return
	}
	l.publisher.Publish(model.TradeEvent{
		Action: action,
		Quote:  quote,
		Date:   l.now().UnixMilli(),
		Amount: amount,
		Owned:  owned,
	})
}
