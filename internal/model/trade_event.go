package model

// TradeAction is the direction of an executed trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// TradeEvent records one executed trade. It is immutable after the
// ledger publishes it; the audit trail owns it from then on. The wire
// keys follow the historical event format consumed by the dashboard.
type TradeEvent struct {
	Action TradeAction `json:"action"`
	Quote  Quote       `json:"quote"`
	Date   int64       `json:"date"` // unix milliseconds
	Amount int64       `json:"original-amount"`
	Owned  int64       `json:"new-amount"`
}
