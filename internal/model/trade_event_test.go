package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeEventWireKeys(t *testing.T) {
	event := TradeEvent{
		Action: TradeActionBuy,
		Quote:  Quote{Name: "MacroHard"},
		Date:   1500000000000,
		Amount: 3,
		Owned:  7,
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.Contains(t, fields, "action")
	assert.Contains(t, fields, "quote")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "original-amount")
	assert.Contains(t, fields, "new-amount")
	assert.NotContains(t, fields, "amount", "historical key is original-amount")

	var decoded TradeEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, int64(3), decoded.Amount)
	assert.Equal(t, int64(7), decoded.Owned)
}
