// Package diff computes the operation set that reconciles one declarative
// graph snapshot into another. The differ is pure and synchronous; it makes
// no ordering promises beyond determinism, because connection resolution is
// lazy at application time and forward references are legal.
package diff

import "github.com/wavekit/wavegraph/internal/graph"

// OpKind discriminates the two reconciliation operations.
type OpKind int

const (
	// OpUpsert creates the node if absent or updates it in place.
	OpUpsert OpKind = iota
	// OpRemove destroys the live node for an id no longer declared.
	OpRemove
)

func (k OpKind) String() string {
	if k == OpRemove {
		return "remove"
	}
	return "upsert"
}

// Op is a single reconciliation operation. Node is populated for upserts
// only.
type Op struct {
	Kind OpKind
	ID   graph.NodeID
	Node graph.Node
}

// Diff compares two graph snapshots and emits one Upsert per id that is new
// or structurally changed in next, and one Remove per id present in prev
// but absent from next. Unchanged ids produce nothing. Duplicate ids within
// either snapshot collapse last-write-wins before comparison.
//
// Output order is deterministic: upserts in next's declaration order, then
// removes in prev's declaration order.
func Diff(prev, next graph.Graph) []Op {
	prevByID := prev.ByID()
	nextByID := next.ByID()

	var ops []Op
	for _, n := range next.Dedup() {
		old, ok := prevByID[n.ID]
		if ok && old.Equal(n) {
			continue
		}
		ops = append(ops, Op{Kind: OpUpsert, ID: n.ID, Node: n})
	}
	for _, n := range prev.Dedup() {
		if _, ok := nextByID[n.ID]; !ok {
			ops = append(ops, Op{Kind: OpRemove, ID: n.ID})
		}
	}
	return ops
}
