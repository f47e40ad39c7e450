package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Observer receives one notification per model call, after it completes.
type Observer interface {
	ObserveModelCall(operation string, d time.Duration, err error)
}

// GuardConfig controls rate limiting and circuit breaking for model calls.
// Calls are never retried.
type GuardConfig struct {
	RateLimit float64 // requests per second; 0 disables limiting
	RateBurst int

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func (c GuardConfig) normalize() GuardConfig {
	if c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = 5
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = 0.6
	}
	if c.BreakerOpenTimeout <= 0 {
		c.BreakerOpenTimeout = 30 * time.Second
	}
	if c.BreakerHalfOpenMaxCalls == 0 {
		c.BreakerHalfOpenMaxCalls = 1
	}
	return c
}

// Guard wraps every outbound model call: wait for the rate limiter, run
// through the per-operation breaker, record latency.
type Guard struct {
	cfg      GuardConfig
	limiter  *rate.Limiter
	stats    *LatencyStats
	observer Observer
	log      *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewGuard(cfg GuardConfig, stats *LatencyStats, observer Observer, log *slog.Logger) *Guard {
	cfg = cfg.normalize()
	if log == nil {
		log = slog.Default()
	}
	g := &Guard{
		cfg:      cfg,
		stats:    stats,
		observer: observer,
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return g
}

// Stats returns the latency tracker, which may be nil.
func (g *Guard) Stats() *LatencyStats {
	return g.stats
}

// Do runs fn once under the guard. Breaker rejections come back as a
// ModelError with status 503.
func (g *Guard) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit %s: %w", op, err)
		}
	}

	start := time.Now()
	var err error
	if g.cfg.BreakerEnabled {
		_, err = g.breaker(op).Execute(func() (any, error) {
			return nil, fn(ctx)
		})
		if IsCircuitOpen(err) {
			err = &ModelError{
				Operation:  op,
				StatusCode: http.StatusServiceUnavailable,
				Message:    "circuit breaker open",
				Err:        err,
			}
		}
	} else {
		err = fn(ctx)
	}
	elapsed := time.Since(start)

	if g.stats != nil {
		g.stats.Record(op, elapsed, err != nil)
	}
	if g.observer != nil {
		g.observer.ObserveModelCall(op, elapsed, err)
	}
	if err != nil {
		g.log.Debug("model call failed", "operation", op, "duration_ms", elapsed.Milliseconds(), "error", err)
	}
	return err
}

func (g *Guard) breaker(operation string) *gobreaker.CircuitBreaker[any] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[operation]; ok {
		return cb
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: g.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     g.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < g.cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= g.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}
	cb := gobreaker.NewCircuitBreaker[any](settings)
	g.breakers[operation] = cb
	return cb
}

// IsCircuitOpen reports whether err is a breaker rejection.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
