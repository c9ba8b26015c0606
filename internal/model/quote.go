package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one market tick for a single company.
// Ask is the price to buy, Bid the price to sell, Shares the
// market-side liquidity available for that tick.
type Quote struct {
	Exchange string          `json:"exchange"`
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	Bid      decimal.Decimal `json:"bid"`
	Ask      decimal.Decimal `json:"ask"`
	Volume   int64           `json:"volume"`
	Open     decimal.Decimal `json:"open"`
	Shares   int64           `json:"shares"`
	Time     time.Time       `json:"time"`
}
