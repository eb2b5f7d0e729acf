package audio

// Node is the handle surface every live node exposes to the reconciler.
// Concrete node types add kind-specific fields and override Param to expose
// their connectable parameters by name.
type Node interface {
	// AudioContext returns the owning context.
	AudioContext() *Context

	// Connect routes this node's output into target's default audio input.
	Connect(target Node)
	// ConnectParam routes this node's output into a parameter of another node.
	ConnectParam(p *Param)
	// Disconnect removes a previously established default-input connection.
	Disconnect(target Node)
	// DisconnectParam removes a previously established parameter connection.
	DisconnectParam(p *Param)

	// Param returns the named connectable parameter, or nil when the node
	// has no parameter of that name.
	Param(name string) *Param

	// Release stops any playback, tears down the node's outgoing
	// connections and retires the handle. Further use is a no-op.
	Release()
	// Released reports whether Release has been called.
	Released() bool
}

// core carries the bookkeeping shared by every node kind.
type core struct {
	ctx       *Context
	nodeOuts  map[Node]struct{}
	paramOuts map[*Param]struct{}
	released  bool
}

func newCore(ctx *Context) *core {
	return &core{
		ctx:       ctx,
		nodeOuts:  make(map[Node]struct{}),
		paramOuts: make(map[*Param]struct{}),
	}
}

func (n *core) AudioContext() *Context { return n.ctx }

func (n *core) Connect(target Node) {
	if n.released {
		return
	}
	if _, ok := n.nodeOuts[target]; ok {
		return
	}
	n.nodeOuts[target] = struct{}{}
	n.ctx.count(func(s *Stats) { s.Connects++ })
}

func (n *core) ConnectParam(p *Param) {
	if n.released {
		return
	}
	if _, ok := n.paramOuts[p]; ok {
		return
	}
	n.paramOuts[p] = struct{}{}
	n.ctx.count(func(s *Stats) { s.Connects++ })
}

func (n *core) Disconnect(target Node) {
	if _, ok := n.nodeOuts[target]; !ok {
		return
	}
	delete(n.nodeOuts, target)
	n.ctx.count(func(s *Stats) { s.Disconnects++ })
}

func (n *core) DisconnectParam(p *Param) {
	if _, ok := n.paramOuts[p]; !ok {
		return
	}
	delete(n.paramOuts, p)
	n.ctx.count(func(s *Stats) { s.Disconnects++ })
}

// Param on the shared core reports no parameters; kinds with connectable
// parameters shadow it.
func (n *core) Param(name string) *Param { return nil }

func (n *core) Release() {
	if n.released {
		return
	}
	for target := range n.nodeOuts {
		n.Disconnect(target)
	}
	for p := range n.paramOuts {
		n.DisconnectParam(p)
	}
	n.released = true
	n.ctx.count(func(s *Stats) { s.Releases++ })
}

func (n *core) Released() bool { return n.released }

// OutputCount returns how many outgoing connections the node currently
// holds, counting both default-input and parameter edges.
func (n *core) OutputCount() int {
	return len(n.nodeOuts) + len(n.paramOuts)
}

// ConnectedTo reports whether a default-input edge to target exists.
func (n *core) ConnectedTo(target Node) bool {
	_, ok := n.nodeOuts[target]
	return ok
}

// ConnectedToParam reports whether a parameter edge to p exists.
func (n *core) ConnectedToParam(p *Param) bool {
	_, ok := n.paramOuts[p]
	return ok
}
