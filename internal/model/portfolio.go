package model

import "github.com/shopspring/decimal"

// Portfolio is a snapshot of cash and per-company share counts.
// A company with zero shares never appears in Holdings.
type Portfolio struct {
	Cash     decimal.Decimal  `json:"cash"`
	Holdings map[string]int64 `json:"holdings"`
}

// NewPortfolio creates a portfolio with the given cash endowment.
func NewPortfolio(cash decimal.Decimal) Portfolio {
	return Portfolio{
		Cash:     cash,
		Holdings: make(map[string]int64),
	}
}

// Amount returns the number of shares held for a company.
func (p Portfolio) Amount(name string) int64 {
	return p.Holdings[name]
}

// Clone returns a deep copy that shares no state with the receiver.
func (p Portfolio) Clone() Portfolio {
	holdings := make(map[string]int64, len(p.Holdings))
	for name, amount := range p.Holdings {
		holdings[name] = amount
	}
	return Portfolio{Cash: p.Cash, Holdings: holdings}
}
