package publish

import (
	"context"
	"fmt"
	"sync"
	"time"

	"primenum/pkg/platform/sentinel"
)

// Sink is anything that can publish a found prime.
type Sink interface {
	Publish(ctx context.Context, runID string, value uint64) error
}

// Guarded stops calling its sink after repeated failures so that requests
// fail fast while the broker is down instead of each waiting out a produce
// timeout. After the cooldown one publish is let through to probe the sink.
type Guarded struct {
	sink Sink

	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openUntil time.Time
	open      bool
	now       func() time.Time
}

// GuardOption configures a Guarded publisher.
type GuardOption func(*Guarded)

// WithThreshold sets the number of consecutive failures that opens the
// circuit.
func WithThreshold(n int) GuardOption {
	return func(g *Guarded) {
		if n > 0 {
			g.threshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open.
func WithCooldown(d time.Duration) GuardOption {
	return func(g *Guarded) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// Guard wraps sink. Defaults are 5 failures and a 30s cooldown.
func Guard(sink Sink, opts ...GuardOption) *Guarded {
	g := &Guarded{
		sink:      sink,
		threshold: 5,
		cooldown:  30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Publish forwards to the sink unless the circuit is open, in which case it
// fails with sentinel.ErrStorageExhausted without touching the sink.
func (g *Guarded) Publish(ctx context.Context, runID string, value uint64) error {
	if !g.allow() {
		return fmt.Errorf("publish prime %d: circuit open: %w", value, sentinel.ErrStorageExhausted)
	}
	err := g.sink.Publish(ctx, runID, value)
	g.record(err)
	return err
}

// IsOpen reports whether publishes are currently being refused.
func (g *Guarded) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open && !g.now().After(g.openUntil)
}

func (g *Guarded) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open {
		return true
	}
	if g.now().After(g.openUntil) {
		// Half-open: one probe, and a single failure re-opens.
		g.open = false
		g.failures = g.threshold - 1
		return true
	}
	return false
}

func (g *Guarded) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		g.failures = 0
		g.open = false
		return
	}
	g.failures++
	if g.failures >= g.threshold {
		g.open = true
		g.openUntil = g.now().Add(g.cooldown)
	}
}
