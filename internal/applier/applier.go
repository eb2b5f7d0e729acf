// Package applier owns the live-node table and reconciles declarative graph
// snapshots against the audio runtime. Each Apply resolves asset
// references, diffs the resolvable subset against the last applied
// baseline, executes the resulting upserts and removes through the kind
// registry, and re-resolves every declared connection against whatever
// live nodes currently exist. Nodes whose buffers are still in flight are
// held back; their decode triggers an automatic re-apply of the last
// submitted graph.
package applier

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wavekit/wavegraph/internal/assets"
	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/diff"
	"github.com/wavekit/wavegraph/internal/graph"
	"github.com/wavekit/wavegraph/internal/registry"
)

// ContextFactory constructs the audio runtime on first use. Failure puts
// the applier into a permanent disabled state instead of propagating.
type ContextFactory func() (*audio.Context, error)

// liveNode pairs a runtime handle with the declarative definition last
// applied to it, which decides "unchanged" on the next diff.
type liveNode struct {
	node audio.Node
	def  graph.Node
}

// edge identifies one established connection. An empty param means the
// target's default audio input; the reserved output id addresses the
// context destination.
type edge struct {
	from  graph.NodeID
	to    graph.NodeID
	param graph.ParamName
}

// Option configures an Applier.
type Option func(*Applier)

// WithContextFactory overrides how the audio context is constructed.
func WithContextFactory(f ContextFactory) Option {
	return func(a *Applier) { a.newContext = f }
}

// Applier reconciles declarative graphs into live runtime state. All
// methods are safe for concurrent use; Apply never blocks on I/O.
type Applier struct {
	mu          sync.Mutex
	logger      *slog.Logger
	reg         *registry.Registry
	cache       *assets.Cache
	newContext  ContextFactory
	ctx         *audio.Context
	disabled    bool
	live        map[graph.NodeID]*liveNode
	conns       map[edge]struct{}
	baseline    graph.Graph
	submitted   graph.Graph
	pendingSubs map[string]bool
}

// New creates an Applier. The audio context is constructed lazily on the
// first Apply so that construction failure can degrade gracefully.
func New(logger *slog.Logger, reg *registry.Registry, cache *assets.Cache, opts ...Option) *Applier {
	a := &Applier{
		logger:      logger,
		reg:         reg,
		cache:       cache,
		newContext:  func() (*audio.Context, error) { return audio.NewContext() },
		live:        make(map[graph.NodeID]*liveNode),
		conns:       make(map[edge]struct{}),
		pendingSubs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply reconciles the runtime to the given declarative graph. Unknown
// node kinds panic: they indicate a malformed input contract, unlike
// environmental failures which are absorbed.
func (a *Applier) Apply(g graph.Graph) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disabled {
		return
	}
	if a.ctx == nil {
		ctx, err := a.newContext()
		if err != nil {
			a.disabled = true
			a.logger.Error("Audio runtime unavailable, applier permanently disabled.", "error", err)
			return
		}
		a.ctx = ctx
	}

	g = g.Dedup()
	a.submitted = g

	// Partition on asset readiness. Resolve starts missing fetches as a
	// side effect and never blocks.
	var ready graph.Graph
	pending := make(map[string]bool)
	for _, n := range g {
		instantiable := true
		for _, url := range n.AssetURLs() {
			if a.cache.Resolve(url) == nil {
				pending[url] = true
				instantiable = false
			}
		}
		if instantiable {
			ready = append(ready, n)
		}
	}

	ops := diff.Diff(a.baseline, ready)
	for _, op := range ops {
		if op.Kind == diff.OpRemove {
			a.removeNode(op.ID)
		}
	}
	for _, op := range ops {
		if op.Kind == diff.OpUpsert {
			a.upsertNode(op.Node)
		}
	}

	a.syncConnections(ready)
	a.baseline = ready

	for url := range pending {
		a.subscribeLocked(url)
	}

	if len(ops) > 0 || len(pending) > 0 {
		a.logger.Debug("Graph applied.",
			"declared", len(g), "ready", len(ready), "ops", len(ops), "pending_assets", len(pending))
	}
}

// subscribeLocked registers at most one outstanding continuation per URL;
// its resolution re-applies the last submitted full graph.
func (a *Applier) subscribeLocked(url string) {
	if a.pendingSubs[url] {
		return
	}
	a.pendingSubs[url] = true
	a.cache.Subscribe(url, func() {
		a.mu.Lock()
		delete(a.pendingSubs, url)
		last := a.submitted
		a.mu.Unlock()
		a.Apply(last)
	})
}

func (a *Applier) removeNode(id graph.NodeID) {
	ln, ok := a.live[id]
	if !ok {
		return
	}
	a.logger.Debug("Destroying live node.", "id", id, "kind", ln.def.Props.Kind())

	// Sever inbound edges first so sources drop their handle on the dying
	// node, then let Release tear down playback and outbound edges.
	for e := range a.conns {
		if e.to == id {
			if src, ok := a.live[e.from]; ok {
				if e.param == "" {
					src.node.Disconnect(ln.node)
				} else if p := ln.node.Param(string(e.param)); p != nil {
					src.node.DisconnectParam(p)
				}
			}
			delete(a.conns, e)
		} else if e.from == id {
			delete(a.conns, e)
		}
	}
	ln.node.Release()
	delete(a.live, id)
}

func (a *Applier) upsertNode(n graph.Node) {
	kind := n.Props.Kind()
	h, ok := a.reg.Lookup(kind)
	if !ok {
		panic(fmt.Sprintf("unknown node kind %q for node %q", kind, n.ID))
	}

	bc := registry.BuildContext{Audio: a.ctx, Buffer: a.cache.Resolve}

	if existing, ok := a.live[n.ID]; ok {
		if existing.def.Props.Kind() == kind {
			if err := h.Update(bc, existing.node, n.Props); err != nil {
				a.logger.Error("Live node update failed.", "id", n.ID, "kind", kind, "error", err)
				return
			}
			existing.def = n
			return
		}
		// Kind changed under the same id: recreate.
		a.removeNode(n.ID)
	}

	node, err := h.Create(bc, n.Props)
	if err != nil {
		a.logger.Error("Live node creation failed.", "id", n.ID, "kind", kind, "error", err)
		return
	}
	a.live[n.ID] = &liveNode{node: node, def: n}
}

// syncConnections re-resolves every declared output of the applied subset
// against the live-node table, establishing missing edges and severing
// stale ones. Destinations naming ids with no live node are silently
// dropped; they become live on a later apply once the target exists.
func (a *Applier) syncConnections(applied graph.Graph) {
	desired := make(map[edge]struct{})
	for _, n := range applied {
		if _, ok := a.live[n.ID]; !ok {
			continue
		}
		for _, out := range n.Outputs {
			e := edge{from: n.ID, to: out.Target, param: out.Param}
			if _, ok := a.resolveEndpoint(e); ok {
				desired[e] = struct{}{}
			}
		}
	}

	for e := range a.conns {
		if _, want := desired[e]; want {
			continue
		}
		src, ok := a.live[e.from]
		if !ok {
			delete(a.conns, e)
			continue
		}
		if target, ok := a.resolveEndpoint(e); ok {
			if target.param != nil {
				src.node.DisconnectParam(target.param)
			} else {
				src.node.Disconnect(target.node)
			}
		}
		delete(a.conns, e)
	}

	for e := range desired {
		if _, have := a.conns[e]; have {
			continue
		}
		src := a.live[e.from]
		target, _ := a.resolveEndpoint(e)
		if target.param != nil {
			src.node.ConnectParam(target.param)
		} else {
			src.node.Connect(target.node)
		}
		a.conns[e] = struct{}{}
	}
}

// endpoint is a resolved connection target: either a node's default input
// or one of its parameters.
type endpoint struct {
	node  audio.Node
	param *audio.Param
}

func (a *Applier) resolveEndpoint(e edge) (endpoint, bool) {
	if e.to == graph.OutputID {
		if e.param != "" {
			return endpoint{}, false
		}
		return endpoint{node: a.ctx.Destination()}, true
	}
	ln, ok := a.live[e.to]
	if !ok {
		return endpoint{}, false
	}
	if e.param == "" {
		return endpoint{node: ln.node}, true
	}
	p := ln.node.Param(string(e.param))
	if p == nil {
		return endpoint{}, false
	}
	return endpoint{node: ln.node, param: p}, true
}

// Now returns the runtime clock, reporting false while the runtime does
// not exist (never constructed yet, or permanently disabled).
func (a *Applier) Now() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil || a.disabled {
		return 0, false
	}
	return a.ctx.CurrentTime(), true
}

// Disabled reports whether runtime construction failed permanently.
func (a *Applier) Disabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disabled
}

// ContextStats exposes the runtime mutation counters, for diagnostics and
// tests. The second return is false while no runtime exists.
func (a *Applier) ContextStats() (audio.Stats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return audio.Stats{}, false
	}
	return a.ctx.Stats(), true
}

// LiveIDs returns the ids of currently instantiated nodes, unordered.
func (a *Applier) LiveIDs() []graph.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]graph.NodeID, 0, len(a.live))
	for id := range a.live {
		ids = append(ids, id)
	}
	return ids
}

// Close releases every live node and closes the runtime. The applier is
// unusable afterwards.
func (a *Applier) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, ln := range a.live {
		ln.node.Release()
		delete(a.live, id)
	}
	a.conns = make(map[edge]struct{})
	if a.ctx != nil {
		a.ctx.Close()
	}
	a.disabled = true
}
