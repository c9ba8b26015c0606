// Package breaker implements a circuit breaker around a single
// outbound dependency. One breaker instance protects exactly one
// dependency and holds no other cross-request state.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/flow"
	"main/internal/obs"
)

// ErrOpen reports a call rejected because the circuit is open.
var ErrOpen = errors.New("circuit open")

// State is the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Call performs the protected request and returns its response body.
type Call func(ctx context.Context) ([]byte, error)

// Fallback produces the degraded response when the call is rejected or
// fails. The caller always receives a usable body.
type Fallback func(err error) []byte

// Config tunes one breaker instance. The zero value gets the platform
// defaults applied by New.
type Config struct {
	Name         string
	MaxFailures  int
	CallTimeout  time.Duration
	ResetTimeout time.Duration
	Clock        func() time.Time
}

// Breaker is the CLOSED/OPEN/HALF_OPEN state machine.
type Breaker struct {
	cfg     Config
	metrics *obs.Metrics

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// New creates a breaker, filling in defaults for absent config fields.
func New(cfg Config, metrics *obs.Metrics) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "breaker"
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 2
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = time.Second
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 2 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Breaker{cfg: cfg, metrics: metrics}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do runs the call if the circuit allows it, bounded by the per-call
// timeout. On rejection, failure or timeout the fallback's body is
// returned instead; the original error never reaches the caller.
func (b *Breaker) Do(ctx context.Context, call Call, fallback Fallback) []byte {
	if !b.allow() {
		b.metrics.IncBreakerReject()
		return fallback(ErrOpen)
	}

	body, err := b.invoke(ctx, call)
	if err != nil {
		b.onFailure()
		return fallback(err)
	}
	b.onSuccess()
	return body
}

// invoke bounds the call by the per-call timeout even if the call
// ignores its context.
func (b *Breaker) invoke(ctx context.Context, call Call) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()
	return flow.Go(func() ([]byte, error) {
		return call(callCtx)
	}).Await(callCtx)
}

// allow reports whether a call may proceed, transitioning OPEN to
// HALF_OPEN once the reset timeout has elapsed. At most one probe runs
// in HALF_OPEN.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.cfg.Clock().Sub(b.openedAt) < b.cfg.ResetTimeout {
			return false
		}
		b.transition(StateHalfOpen)
		return true
	default: // HalfOpen, probe already in flight
		return false
	}
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.openedAt = b.cfg.Clock()
		b.transition(StateOpen)
		return
	}
	b.failures++
	if b.failures >= b.cfg.MaxFailures {
		b.openedAt = b.cfg.Clock()
		b.metrics.IncBreakerTrip()
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(next State) {
	logs.Infof("circuit %s: %s -> %s", b.cfg.Name, b.state, next)
	b.state = next
}
