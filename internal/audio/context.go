// Package audio is the live runtime the reconciler mutates: a virtual audio
// context that does full structural bookkeeping — node instantiation,
// connection topology, parameter automation timelines, playback clock —
// while leaving sample rendering to whatever backend embeds it. Signal
// math is deliberately absent; the reconciler only needs handles whose
// observable state mirrors what a real audio engine would hold.
package audio

import (
	"sync"
	"time"
)

const defaultSampleRate = 44100

// Stats counts the structural mutations performed against a context. Tests
// and the progress surfaces use deltas to prove reconciliation minimality.
type Stats struct {
	Creates     int
	Connects    int
	Disconnects int
	Releases    int
	ParamEvents int
}

// Option configures a Context at construction.
type Option func(*Context)

// WithSampleRate overrides the context sample rate.
func WithSampleRate(rate int) Option {
	return func(c *Context) { c.sampleRate = rate }
}

// WithClock overrides the wall clock, for deterministic time in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

// Context owns every live node and the playback clock. A single context
// backs one graph instance for the life of the process.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	now        func() time.Time
	start      time.Time
	dest       *Destination
	stats      Stats
	closed     bool
}

// NewContext constructs a running context. The clock starts immediately.
func NewContext(opts ...Option) (*Context, error) {
	c := &Context{
		sampleRate: defaultSampleRate,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	c.dest = &Destination{core: newCore(c)}
	return c, nil
}

// CurrentTime returns seconds elapsed since the context was constructed.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.start).Seconds()
}

// SampleRate returns the context sample rate in Hz.
func (c *Context) SampleRate() int { return c.sampleRate }

// Destination is the context's system output node.
func (c *Context) Destination() *Destination { return c.dest }

// Stats returns a snapshot of the mutation counters.
func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close marks the context defunct. Nodes released afterwards still update
// bookkeeping; the flag exists so embedding backends can stop rendering.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Context) count(f func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.stats)
}

// Destination is the terminal system-output node. It accepts connections
// and nothing else.
type Destination struct {
	*core
}
