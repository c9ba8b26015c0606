package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
)

type scriptedReader struct {
	messages []kafka.Message
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

type memoryAppender struct {
	events []model.TradeEvent
}

func (a *memoryAppender) Append(_ context.Context, event model.TradeEvent) error {
	a.events = append(a.events, event)
	return nil
}

func TestConsumerAppendsEvents(t *testing.T) {
	event := model.TradeEvent{Action: model.TradeActionBuy, Amount: 4, Owned: 4}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	reader := &scriptedReader{messages: []kafka.Message{
		{Value: payload},
		{Value: []byte("not json")},
	}}
	store := &memoryAppender{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	NewConsumer(reader, store).Run(ctx)

	require.Len(t, store.events, 1, "malformed events are skipped")
	assert.Equal(t, event, store.events[0])
}
