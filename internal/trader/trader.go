// Package trader implements the compulsive traders: market parties
// that watch quotes and buy or sell on a coin flip.
package trader

import (
	"context"
	"math/rand"

	"github.com/yanun0323/logs"

	"main/internal/model"
)

// PortfolioClient is the slice of the portfolio service a trader uses.
type PortfolioClient interface {
	Buy(ctx context.Context, amount int64, quote model.Quote) (model.Portfolio, error)
	Sell(ctx context.Context, amount int64, quote model.Quote) (model.Portfolio, error)
}

// Trader trades one company compulsively.
type Trader struct {
	company   string
	portfolio PortfolioClient
	rng       *rand.Rand
}

// New creates a trader bound to one company. Pass seed 0 for a
// time-based seed.
func New(company string, portfolio PortfolioClient, seed int64) *Trader {
	return &Trader{
		company:   company,
		portfolio: portfolio,
		rng:       newRand(seed),
	}
}

// Company returns the company this trader is obsessed with.
func (t *Trader) Company() string {
	return t.company
}

// OnQuote applies the compulsive trading logic to one quote: ignore
// other companies, flip a coin, trade a handful of shares. Trade
// failures are logged and swallowed; the trader never stops trading.
func (t *Trader) OnQuote(ctx context.Context, quote model.Quote) {
	if quote.Name != t.company {
		return
	}
	amount := t.PickAmount()
	if t.TimeToSell() {
		if _, err := t.portfolio.Sell(ctx, amount, quote); err != nil {
			logs.Infof("failed to sell %d of %s: %v", amount, t.company, err)
			return
		}
		logs.Infof("sold %d of %s", amount, t.company)
		return
	}
	if _, err := t.portfolio.Buy(ctx, amount, quote); err != nil {
		logs.Infof("failed to buy %d of %s: %v", amount, t.company, err)
		return
	}
	logs.Infof("bought %d of %s", amount, t.company)
}

// TimeToSell flips the coin.
func (t *Trader) TimeToSell() bool {
	return t.rng.Intn(2) == 0
}

// PickAmount returns a trade size between 1 and 6.
func (t *Trader) PickAmount() int64 {
	return int64(t.rng.Intn(6) + 1)
}

// PickCompany chooses a company at random from the list.
func PickCompany(companies []string, seed int64) string {
	if len(companies) == 0 {
		return ""
	}
	return companies[newRand(seed).Intn(len(companies))]
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(rand.Int63()))
	}
	return rand.New(rand.NewSource(seed))
}
