package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"github.com/yanun0323/logs"

	"main/internal/model"
)

// Appender is the slice of the store the consumer needs.
type Appender interface {
	Append(ctx context.Context, event model.TradeEvent) error
}

// MessageReader abstracts the kafka reader for testing.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Consumer drains the trade event stream into the store.
type Consumer struct {
	reader MessageReader
	store  Appender
}

// NewConsumer creates a consumer over the given reader and store.
func NewConsumer(reader MessageReader, store Appender) *Consumer {
	return &Consumer{reader: reader, store: store}
}

// Run consumes until the context is done. Malformed events and store
// failures are logged and skipped; the audit trail is best-effort and
// never blocks the trade flow.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logs.Errorf("read trade event: %v", err)
			continue
		}
		var event model.TradeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logs.Warnf("skip malformed trade event: %v", err)
			continue
		}
		if err := c.store.Append(ctx, event); err != nil {
			logs.Errorf("append trade event: %v", err)
		}
	}
}
