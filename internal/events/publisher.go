// Package events moves trade events from the ledger to whoever audits
// or displays them. Delivery is fire-and-forget: the ledger never waits
// for, or learns about, the fate of a published event.
package events

import (
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/model"
	"main/internal/obs"
)

// Publisher delivers trade events downstream.
type Publisher interface {
	Publish(event model.TradeEvent)
}

// BusPublisher publishes on an in-process queue. Used for
// single-process runs and tests.
type BusPublisher struct {
	queue   *bus.Queue[model.TradeEvent]
	metrics *obs.Metrics
}

// NewBusPublisher wraps the given queue.
func NewBusPublisher(queue *bus.Queue[model.TradeEvent], metrics *obs.Metrics) *BusPublisher {
	return &BusPublisher{queue: queue, metrics: metrics}
}

// Publish enqueues the event, dropping it if the queue is full.
func (p *BusPublisher) Publish(event model.TradeEvent) {
	if err := p.queue.TryPublish(event); err != nil {
		p.metrics.IncEventDrop()
		logs.Warnf("drop trade event %s %d %s: %v", event.Action, event.Amount, event.Quote.Name, err)
	}
}

// LogPublisher only logs events. It is the default sink when no broker
// is configured.
type LogPublisher struct{}

// Publish logs the event.
func (LogPublisher) Publish(event model.TradeEvent) {
	logs.Infof("trade %s %d of %s, now owns %d", event.Action, event.Amount, event.Quote.Name, event.Owned)
}
