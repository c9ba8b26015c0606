package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
	"main/internal/model"
	"main/internal/obs"
)

func TestBusPublisherDelivers(t *testing.T) {
	queue := bus.NewQueue[model.TradeEvent](4)
	publisher := NewBusPublisher(queue, obs.NewMetrics())

	publisher.Publish(model.TradeEvent{Action: model.TradeActionBuy, Amount: 3})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var got []model.TradeEvent
	queue.Close()
	queue.Run(ctx, func(e model.TradeEvent) { got = append(got, e) })

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Amount)
}

func TestBusPublisherDropsWhenFull(t *testing.T) {
	queue := bus.NewQueue[model.TradeEvent](1)
	metrics := obs.NewMetrics()
	publisher := NewBusPublisher(queue, metrics)

	publisher.Publish(model.TradeEvent{Amount: 1})
	publisher.Publish(model.TradeEvent{Amount: 2})

	assert.Equal(t, uint64(1), metrics.Snapshot().EventDrops)
}
