// Package registry maps declarative node kinds to the Go handlers that
// create and update live audio nodes. The kind set is closed: looking up a
// kind nobody registered is a contract violation, and registering the same
// kind twice is a programmer error. Both panic.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/graph"
)

// Module is the interface every handler module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// BuildContext carries what a handler needs to construct or update a node:
// the live audio context and a lookup for decoded asset buffers. Buffer is
// only consulted for kinds that reference a URL, and the caller guarantees
// it returns non-nil for every URL the props reference.
type BuildContext struct {
	Audio  *audio.Context
	Buffer func(url string) *audio.Buffer
}

// RegisteredKind holds the lifecycle handlers for one node kind. Create
// instantiates a live node from props; Update reapplies props to an
// existing live node of the same kind in place.
type RegisteredKind struct {
	Create func(bc BuildContext, props graph.Props) (audio.Node, error)
	Update func(bc BuildContext, node audio.Node, props graph.Props) error
}

// Registry holds the kind handlers for a single application instance.
type Registry struct {
	kinds map[graph.Kind]*RegisteredKind
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{kinds: make(map[graph.Kind]*RegisteredKind)}
}

// RegisterKind registers the handlers for a node kind.
func (r *Registry) RegisterKind(kind graph.Kind, h *RegisteredKind) {
	if _, exists := r.kinds[kind]; exists {
		panic(fmt.Sprintf("handler for node kind %q already registered", kind))
	}
	slog.Debug("Registering node kind handler.", "kind", kind)
	r.kinds[kind] = h
}

// Lookup returns the handlers for a kind.
func (r *Registry) Lookup(kind graph.Kind) (*RegisteredKind, bool) {
	h, ok := r.kinds[kind]
	return h, ok
}

// Kinds returns the registered kinds in sorted order, for startup logging.
func (r *Registry) Kinds() []graph.Kind {
	out := make([]graph.Kind, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ApplyParam writes a declarative Param onto a live parameter. A constant
// sets the base value directly; an automation sequence cancels whatever was
// scheduled before and replays the methods in order, so updates always
// leave the live timeline equal to the declared one.
func ApplyParam(p *audio.Param, v graph.Param) {
	p.CancelScheduledValues(0)
	if v.IsConstant() {
		p.SetValue(v.Value)
		return
	}
	for _, ev := range v.Events {
		switch ev.Method {
		case graph.MethodSetValue:
			p.SetValueAtTime(ev.Value, ev.Time)
		case graph.MethodLinearRamp:
			p.LinearRampToValueAtTime(ev.Value, ev.Time)
		case graph.MethodExponentialRamp:
			p.ExponentialRampToValueAtTime(ev.Value, ev.Time)
		case graph.MethodSetTarget:
			p.SetTargetAtTime(ev.Value, ev.Time, ev.TimeConstant)
		case graph.MethodSetValueCurve:
			p.SetValueCurveAtTime(ev.Curve, ev.Time, ev.Duration)
		default:
			panic(fmt.Sprintf("unknown automation method %q", ev.Method))
		}
	}
}
