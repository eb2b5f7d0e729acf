// Package ticker is the render loop: a fixed-interval clock sampler that
// reads the runtime's playback time and emits it as tick notifications.
// Ticks never drive reconciliation; they only surface the clock.
package ticker

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 40 * time.Millisecond

// Ticker periodically samples a time source and forwards the value to the
// tick callback. A source reporting false (runtime absent) suppresses the
// emission but keeps the schedule running.
type Ticker struct {
	interval time.Duration
	now      func() (float64, bool)
	onTick   func(float64)

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a Ticker. A non-positive interval falls back to
// DefaultInterval.
func New(interval time.Duration, now func() (float64, bool), onTick func(float64)) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		interval: interval,
		now:      now,
		onTick:   onTick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop. It returns immediately; ticks are emitted
// from a dedicated goroutine until Stop is called. Starting twice is a
// no-op.
func (t *Ticker) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.run()
}

func (t *Ticker) run() {
	defer close(t.done)
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tick.C:
			if now, ok := t.now(); ok {
				t.onTick(now)
			}
		}
	}
}

// Stop halts the loop permanently. It is idempotent, and no tick is
// emitted after it returns.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	if t.started.Load() {
		<-t.done
	}
}
