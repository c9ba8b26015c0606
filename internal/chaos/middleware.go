// Package chaos injects failures and latency into HTTP handlers so the
// trading flow can be exercised against a flaky dependency.
package chaos

import (
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Config controls chaos injection behavior.
type Config struct {
	Seed     int64
	FailRate float64
	MaxDelay time.Duration
}

// Validate ensures the config is within supported ranges.
func (c Config) Validate() error {
	if c.FailRate < 0 || c.FailRate > 1 {
		return fmt.Errorf("failRate must be between 0 and 1")
	}
	if c.MaxDelay < 0 {
		return fmt.Errorf("maxDelay must be >= 0")
	}
	return nil
}

// Engine applies chaos rules to requests.
type Engine struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a chaos engine with validation.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UTC().UnixNano()
	}
	return &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Middleware fails or delays requests per the config. A nil engine is a
// no-op, so callers can wire it unconditionally.
func (e *Engine) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if e == nil {
			c.Next()
			return
		}
		if delay := e.pickDelay(); delay > 0 {
			time.Sleep(delay)
		}
		if e.shouldFail() {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"message": "injected failure"})
			return
		}
		c.Next()
	}
}

func (e *Engine) shouldFail() bool {
	if e.cfg.FailRate <= 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() < e.cfg.FailRate
}

func (e *Engine) pickDelay() time.Duration {
	if e.cfg.MaxDelay <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Duration(e.rng.Int63n(e.cfg.MaxDelay.Nanoseconds() + 1))
}
