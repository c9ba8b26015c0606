// Package valuation computes the total market value of the portfolio's
// holdings by fanning out one concurrent price lookup per held company.
package valuation

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"main/internal/flow"
	"main/internal/model"
	"main/internal/obs"
)

// ErrDependencyUnreachable reports that the pricing endpoint cannot be
// resolved at all. A single company's missing price is never reported
// this way; it degrades to a zero contribution instead.
var ErrDependencyUnreachable = errors.New("pricing endpoint unreachable")

// PriceSource returns the current bid price for one company.
type PriceSource interface {
	Bid(ctx context.Context, name string) (decimal.Decimal, error)
}

// HoldingsSource provides the holdings snapshot to evaluate.
type HoldingsSource interface {
	Snapshot() model.Portfolio
}

// Engine evaluates holdings against live prices.
type Engine struct {
	holdings HoldingsSource
	prices   PriceSource
	timeout  time.Duration
	metrics  *obs.Metrics
}

// NewEngine creates a valuation engine. timeout bounds each individual
// price lookup; zero disables the per-lookup bound.
func NewEngine(holdings HoldingsSource, prices PriceSource, timeout time.Duration, metrics *obs.Metrics) *Engine {
	return &Engine{
		holdings: holdings,
		prices:   prices,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Evaluate sums shareCount * bid over a consistent snapshot of the
// holdings. Lookups run concurrently, one per company, and every lookup
// reaches a terminal state before the sum is computed. A failed or
// timed-out lookup contributes zero. Trades applied while an evaluation
// is in flight are not reflected in its result.
func (e *Engine) Evaluate(ctx context.Context) (decimal.Decimal, error) {
	if e.prices == nil {
		return decimal.Zero, ErrDependencyUnreachable
	}

	holdings := e.holdings.Snapshot().Holdings
	if len(holdings) == 0 {
		return decimal.Zero, nil
	}

	started := time.Now()
	type position struct {
		name   string
		amount int64
	}
	futures := make([]*flow.Future[decimal.Decimal], 0, len(holdings))
	names := make([]string, 0, len(holdings))
	for name, amount := range holdings {
		pos := position{name: name, amount: amount}
		names = append(names, pos.name)
		futures = append(futures, flow.Go(func() (decimal.Decimal, error) {
			return e.lookup(ctx, pos.name, pos.amount)
		}))
	}

	// Each lookup is individually bounded, so joining without a
	// deadline still terminates.
	total := decimal.Zero
	for i, result := range flow.JoinAll(context.Background(), futures) {
		if result.Err != nil {
			e.metrics.IncLookupFailure()
			logs.Warnf("price lookup for %s failed, counting 0: %v", names[i], result.Err)
			continue
		}
		total = total.Add(result.Value)
	}
	e.metrics.ObserveEvaluate(time.Since(started))
	return total, nil
}

func (e *Engine) lookup(ctx context.Context, name string, amount int64) (decimal.Decimal, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	bid, err := e.prices.Bid(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}
	return bid.Mul(decimal.NewFromInt(amount)), nil
}
