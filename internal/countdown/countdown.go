// Package countdown implements the restartable game timer.
//
// A countdown cannot be suspended. Pausing cancels it and resuming starts a
// new one for the remaining time. Callbacks are delivered through the loop's
// post function, so they run on the same thread as every other session
// mutation. Callbacks from a countdown that has since been cancelled or
// replaced are dropped before they reach the caller.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// Countdown owns at most one running timer.
type Countdown struct {
	clock    clockwork.Clock
	interval time.Duration
	post     loop.PostFunc

	mu      sync.Mutex
	gen     uint64
	running bool
	ticker  clockwork.Ticker
	cancel  context.CancelFunc
}

// New creates a countdown that ticks every interval using clock.
func New(clock clockwork.Clock, interval time.Duration, post loop.PostFunc) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Countdown{
		clock:    clock,
		interval: interval,
		post:     post,
	}
}

// Start cancels any running countdown and begins a new one for total.
// onTick receives the time left after each interval; onFinish runs once when
// no time is left.
func (c *Countdown) Start(total time.Duration, onTick func(time.Duration), onFinish func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	c.running = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.ticker = c.clock.NewTicker(c.interval)

	go c.run(ctx, c.ticker, c.gen, c.clock.Now().Add(total), onTick, onFinish)
}

// Cancel stops the running countdown. Its pending callbacks are dropped.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	c.running = false
}

// Running reports whether a countdown is active.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Countdown) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Countdown) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && c.gen == gen
}

func (c *Countdown) finish(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.gen != gen {
		return false
	}
	c.running = false
	c.stopLocked()
	return true
}

func (c *Countdown) run(ctx context.Context, ticker clockwork.Ticker, gen uint64, deadline time.Time,
	onTick func(time.Duration), onFinish func()) {
	if !deadline.After(c.clock.Now()) {
		c.post(func() {
			if c.finish(gen) && onFinish != nil {
				onFinish()
			}
		})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			remaining := deadline.Sub(c.clock.Now())
			if remaining <= 0 {
				c.post(func() {
					if c.finish(gen) && onFinish != nil {
						onFinish()
					}
				})
				return
			}
			c.post(func() {
				if c.current(gen) && onTick != nil {
					onTick(remaining)
				}
			})
		}
	}
}
