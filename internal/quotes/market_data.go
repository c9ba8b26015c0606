// Package quotes simulates the market: a random-walk evaluation per
// company, a periodic tick emitter, and the REST API serving the last
// observed quotes.
package quotes

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

const exchangeName = "micro-trader stock exchange"

// Company describes one simulated company.
type Company struct {
	Name      string
	Symbol    string
	Price     decimal.Decimal
	Variation int
	Period    time.Duration
	Volume    int64
}

// MarketData evaluates one company in a very unrealistic and
// irrational way.
type MarketData struct {
	company Company
	rng     *rand.Rand

	value decimal.Decimal
	ask   decimal.Decimal
	bid   decimal.Decimal
	share int64
}

// NewMarketData creates a simulator for the company, applying defaults
// for absent fields. Pass seed 0 for a time-based seed.
func NewMarketData(company Company, seed int64) (*MarketData, error) {
	if company.Name == "" {
		return nil, fmt.Errorf("company name is empty")
	}
	if company.Symbol == "" {
		company.Symbol = company.Name
	}
	if company.Price.LessThanOrEqual(decimal.Zero) {
		company.Price = decimal.NewFromInt(100)
	}
	if company.Variation <= 0 {
		company.Variation = 100
	}
	if company.Period <= 0 {
		company.Period = 3 * time.Second
	}
	if company.Volume <= 0 {
		company.Volume = 10000
	}
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}

	m := &MarketData{
		company: company,
		rng:     rand.New(rand.NewSource(seed)),
	}
	m.value = company.Price
	m.ask = m.value.Add(m.randUpTo(company.Variation / 2))
	m.bid = m.value.Add(m.randUpTo(company.Variation / 2))
	m.share = company.Volume / 2
	return m, nil
}

// Period returns the tick period for this company.
func (m *MarketData) Period() time.Duration {
	return m.company.Period
}

// Compute advances the evaluation by one tick.
func (m *MarketData) Compute() {
	if m.rng.Intn(2) == 0 {
		m.value = m.value.Add(m.randUpTo(m.company.Variation))
		m.ask = m.value.Add(m.randUpTo(m.company.Variation / 2))
		m.bid = m.value.Add(m.randUpTo(m.company.Variation / 2))
	} else {
		m.value = m.value.Sub(m.randUpTo(m.company.Variation))
		m.ask = m.value.Sub(m.randUpTo(m.company.Variation / 2))
		m.bid = m.value.Sub(m.randUpTo(m.company.Variation / 2))
	}

	one := decimal.NewFromInt(1)
	if m.value.LessThanOrEqual(decimal.Zero) {
		m.value = one
	}
	if m.ask.LessThanOrEqual(decimal.Zero) {
		m.ask = one
	}
	if m.bid.LessThanOrEqual(decimal.Zero) {
		m.bid = one
	}

	if m.rng.Intn(2) == 0 {
		drift := int64(m.rng.Intn(100))
		if m.share+drift < m.company.Volume {
			m.share += drift
		}
	}
}

// Quote returns the current tick as a market quote.
func (m *MarketData) Quote(now time.Time) model.Quote {
	return model.Quote{
		Exchange: exchangeName,
		Name:     m.company.Name,
		Symbol:   m.company.Symbol,
		Bid:      m.bid,
		Ask:      m.ask,
		Volume:   m.company.Volume,
		Open:     m.company.Price,
		Shares:   m.share,
		Time:     now,
	}
}

func (m *MarketData) randUpTo(bound int) decimal.Decimal {
	if bound <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m.rng.Intn(bound)))
}
