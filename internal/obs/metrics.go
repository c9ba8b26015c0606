package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects lightweight counters and latency stats for the
// trading platform. All methods are safe for concurrent use and
// tolerate a nil receiver.
type Metrics struct {
	trades         uint64
	tradeFailures  uint64
	lookupFailures uint64
	breakerRejects uint64
	breakerTrips   uint64
	eventDrops     uint64

	tradeLatency    LatencyStats
	evaluateLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Trades          uint64
	TradeFailures   uint64
	LookupFailures  uint64
	BreakerRejects  uint64
	BreakerTrips    uint64
	EventDrops      uint64
	TradeLatency    LatencySnapshot
	EvaluateLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncTrade records a successful buy or sell.
func (m *Metrics) IncTrade() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.trades, 1)
}

// IncTradeFailure records a rejected trade.
func (m *Metrics) IncTradeFailure() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.tradeFailures, 1)
}

// IncLookupFailure records a price lookup degraded to zero.
func (m *Metrics) IncLookupFailure() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.lookupFailures, 1)
}

// IncBreakerReject records a call rejected by an open circuit.
func (m *Metrics) IncBreakerReject() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.breakerRejects, 1)
}

// IncBreakerTrip records a closed-to-open circuit transition.
func (m *Metrics) IncBreakerTrip() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.breakerTrips, 1)
}

// IncEventDrop records a trade event that could not be published.
func (m *Metrics) IncEventDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.eventDrops, 1)
}

// ObserveTrade measures the latency of one ledger mutation.
func (m *Metrics) ObserveTrade(d time.Duration) {
	if m == nil {
		return
	}
	m.tradeLatency.Observe(d)
}

// ObserveEvaluate measures the latency of one valuation fan-out.
func (m *Metrics) ObserveEvaluate(d time.Duration) {
	if m == nil {
		return
	}
	m.evaluateLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Trades:          atomic.LoadUint64(&m.trades),
		TradeFailures:   atomic.LoadUint64(&m.tradeFailures),
		LookupFailures:  atomic.LoadUint64(&m.lookupFailures),
		BreakerRejects:  atomic.LoadUint64(&m.breakerRejects),
		BreakerTrips:    atomic.LoadUint64(&m.breakerTrips),
		EventDrops:      atomic.LoadUint64(&m.eventDrops),
		TradeLatency:    m.tradeLatency.Snapshot(),
		EvaluateLatency: m.evaluateLatency.Snapshot(),
	}
}

// Observe adds one duration sample.
func (s *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	v := uint64(d)
	atomic.AddUint64(&s.count, 1)
	atomic.AddUint64(&s.sum, v)
	for {
		cur := atomic.LoadUint64(&s.min)
		if cur != 0 && cur <= v {
			break
		}
		if atomic.CompareAndSwapUint64(&s.min, cur, v) {
			break
		}
	}
	for {
		cur := atomic.LoadUint64(&s.max)
		if cur >= v {
			break
		}
		if atomic.CompareAndSwapUint64(&s.max, cur, v) {
			break
		}
	}
}

// Snapshot returns a point-in-time view of the stats.
func (s *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&s.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&s.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&s.min)),
		Max:   time.Duration(atomic.LoadUint64(&s.max)),
		Avg:   time.Duration(sum / count),
	}
}
