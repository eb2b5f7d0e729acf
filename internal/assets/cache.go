// Package assets owns the URL → decoded-buffer cache. Resolution is
// non-blocking: the first Resolve for a URL kicks off an asynchronous fetch
// and decode and returns nil; completion fires one-shot continuations so
// the reconciler can re-apply the graph. Fetch or decode failure is
// non-fatal: the entry resets to absent and the next Resolve retries.
package assets

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/wavekit/wavegraph/internal/audio"
)

// State is the per-URL lifecycle position.
type State int

const (
	StateAbsent State = iota
	StateLoading
	StateLoaded
	StateDecoding
	StateDecoded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateDecoding:
		return "decoding"
	case StateDecoded:
		return "decoded"
	}
	return "absent"
}

type entry struct {
	state State
	buf   *audio.Buffer
}

// Option configures a Cache.
type Option func(*Cache)

// WithClient overrides the HTTP client used for fetches.
func WithClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithDecoder overrides the byte → buffer decoder.
func WithDecoder(decode func([]byte) (*audio.Buffer, error)) Option {
	return func(c *Cache) { c.decode = decode }
}

// Cache is the process-lifetime asset cache. Entries are created on first
// reference and never removed; only a failure rewinds one to absent.
type Cache struct {
	mu         sync.Mutex
	logger     *slog.Logger
	client     *http.Client
	decode     func([]byte) (*audio.Buffer, error)
	entries    map[string]*entry
	order      []string
	subs       map[string][]func()
	onProgress func(decoded []string)
}

// New creates a Cache with the default tuned HTTP client and decoder.
func New(logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		logger:  logger,
		client:  NewHTTPClient(),
		decode:  DecodeBuffer,
		entries: make(map[string]*entry),
		subs:    make(map[string][]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the decoded buffer for url if available. Otherwise, when
// the entry is absent it transitions to loading and starts an asynchronous
// fetch; in every not-yet-decoded state it returns nil immediately without
// starting duplicate work.
func (c *Cache) Resolve(url string) *audio.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[url]
	if !ok {
		e = &entry{}
		c.entries[url] = e
		c.order = append(c.order, url)
	}

	switch e.state {
	case StateDecoded:
		return e.buf
	case StateAbsent:
		e.state = StateLoading
		c.logger.Debug("Asset fetch starting.", "url", url)
		go c.fetch(url)
	}
	return nil
}

// Preload is Resolve for side effect only, for externally declared asset
// lists.
func (c *Cache) Preload(urls []string) {
	for _, u := range urls {
		c.Resolve(u)
	}
}

// Subscribe registers a one-shot continuation invoked when url transitions
// to decoded. If the url decoded between the caller's Resolve and this
// call, the continuation fires on a fresh goroutine so the caller can hold
// its own locks while subscribing.
func (c *Cache) Subscribe(url string, fn func()) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok && e.state == StateDecoded {
		c.mu.Unlock()
		go fn()
		return
	}
	c.subs[url] = append(c.subs[url], fn)
	c.mu.Unlock()
}

// OnProgress registers the callback fired with the ordered decoded URL list
// every time the decoded set grows.
func (c *Cache) OnProgress(fn func(decoded []string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// Snapshot returns the URLs currently decoded, in first-reference order.
func (c *Cache) Snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State reports the lifecycle position of url. Unreferenced URLs are absent.
func (c *Cache) State(url string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[url]; ok {
		return e.state
	}
	return StateAbsent
}

func (c *Cache) snapshotLocked() []string {
	var decoded []string
	for _, u := range c.order {
		if e := c.entries[u]; e != nil && e.state == StateDecoded {
			decoded = append(decoded, u)
		}
	}
	return decoded
}

// fetch runs on its own goroutine: GET the URL, then decode the bytes. No
// cancellation: a graph that stops referencing the URL mid-flight simply
// ignores the eventual resolution.
func (c *Cache) fetch(url string) {
	data, err := c.get(url)
	if err != nil {
		c.fail(url, "fetch", err)
		return
	}

	c.setState(url, StateLoaded)

	// Decode begins immediately after a successful fetch.
	c.setState(url, StateDecoding)
	buf, err := c.decode(data)
	if err != nil {
		c.fail(url, "decode", err)
		return
	}
	c.complete(url, buf)
}

func (c *Cache) get(url string) ([]byte, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *Cache) setState(url string, s State) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		e.state = s
	}
	c.mu.Unlock()
}

// fail logs and rewinds the entry to absent so a future Resolve retries.
func (c *Cache) fail(url, stage string, err error) {
	c.logger.Error("Asset resolution failed.", "stage", stage, "url", url, "error", err)
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		e.state = StateAbsent
		e.buf = nil
	}
	c.mu.Unlock()
}

func (c *Cache) complete(url string, buf *audio.Buffer) {
	c.mu.Lock()
	e, ok := c.entries[url]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.state = StateDecoded
	e.buf = buf
	subs := c.subs[url]
	delete(c.subs, url)
	progress := c.onProgress
	decoded := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("Asset decoded.", "url", url, "duration_s", buf.Duration(), "channels", buf.Channels())
	for _, fn := range subs {
		fn()
	}
	if progress != nil {
		progress(decoded)
	}
}
