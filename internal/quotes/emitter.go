package quotes

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/model"
)

// Emitter periodically publishes a fresh quote per company on the
// in-process bus. Each company ticks at its own period.
type Emitter struct {
	markets []*MarketData
	out     *bus.Queue[model.Quote]
	now     func() time.Time
}

// NewEmitter creates an emitter feeding the given queue.
func NewEmitter(markets []*MarketData, out *bus.Queue[model.Quote]) *Emitter {
	return &Emitter{markets: markets, out: out, now: time.Now}
}

// Run ticks every market until the context is done.
func (e *Emitter) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, market := range e.markets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.tickLoop(ctx, market)
		}()
	}
	wg.Wait()
}

func (e *Emitter) tickLoop(ctx context.Context, market *MarketData) {
	ticker := time.NewTicker(market.Period())
	defer ticker.Stop()
	for {
		select {
		case <-sys.Shutdown():
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			market.Compute()
			quote := market.Quote(e.now())
			if err := e.out.TryPublish(quote); err != nil {
				logs.Warnf("drop quote for %s: %v", quote.Name, err)
			}
		}
	}
}
