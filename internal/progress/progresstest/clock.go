// Package progresstest provides a manually driven clock for simulator tests.
package progresstest

import (
	"sync"
	"time"

	"vidscribe/internal/progress"
)

// ManualClock is a progress.Clock whose time and ticks only move when the
// test says so.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

// NewManualClock returns a clock set at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) NewTicker(d time.Duration) progress.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &ManualTicker{interval: d, ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward without firing tickers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Tick moves the clock forward by one interval of each live ticker and
// delivers a tick to it. It returns the number of tickers that fired.
func (c *ManualClock) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	fired := 0
	for _, t := range c.tickers {
		if t.Stopped() {
			continue
		}
		c.now = c.now.Add(t.interval)
		select {
		case t.ch <- c.now:
		default:
		}
		fired++
	}
	return fired
}

// Live returns the number of tickers created and not yet stopped.
func (c *ManualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// Created returns the number of tickers ever created.
func (c *ManualClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// ManualTicker is the ticker handed out by ManualClock.
type ManualTicker struct {
	mu       sync.Mutex
	interval time.Duration
	ch       chan time.Time
	stopped  bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
