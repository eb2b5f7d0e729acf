// Package graph defines the declarative audio-graph model: plain value types
// describing named processing nodes, their parameters, and their outgoing
// connections. The model carries no live state; it exists to be compared
// structurally and applied against a running audio context elsewhere.
package graph

import "reflect"

// NodeID is an opaque identifier for a node, unique within one graph
// snapshot. Duplicate ids within a snapshot are legal: the later entry wins.
type NodeID string

// OutputID is the reserved id addressing the audio context's destination
// (the system output). It never names a user-declared node.
const OutputID NodeID = "output"

// ParamName identifies a connectable sub-parameter of a target node.
type ParamName string

const (
	ParamFrequency ParamName = "frequency"
	ParamDetune    ParamName = "detune"
	ParamGain      ParamName = "gain"
	ParamDelayTime ParamName = "delayTime"
	ParamPan       ParamName = "pan"
)

// KnownParam reports whether name is one of the connectable parameter names.
func KnownParam(name ParamName) bool {
	switch name {
	case ParamFrequency, ParamDetune, ParamGain, ParamDelayTime, ParamPan:
		return true
	}
	return false
}

// Output declares one outgoing connection of a node. An empty Param means
// the target's default audio input; otherwise the connection terminates in
// the named sub-parameter of the target.
type Output struct {
	Target NodeID
	Param  ParamName
}

// Node is one declarative graph entry: an id, the node's outgoing
// connections, and its kind-specific properties. Outputs may be empty,
// which declares a terminal node that is instantiated but feeds nothing.
type Node struct {
	ID      NodeID
	Outputs []Output
	Props   Props
}

// Equal reports deep structural equality of two nodes: id, outputs and
// props must all match.
func (n Node) Equal(other Node) bool {
	return n.ID == other.ID && reflect.DeepEqual(n.Outputs, other.Outputs) &&
		reflect.DeepEqual(n.Props, other.Props)
}

// AssetURLs returns the buffer URLs the node's props reference, in
// declaration order. Most kinds reference none.
func (n Node) AssetURLs() []string {
	switch p := n.Props.(type) {
	case BufferSource:
		if p.URL != "" {
			return []string{p.URL}
		}
	case Convolver:
		if p.URL != "" {
			return []string{p.URL}
		}
	}
	return nil
}

// Graph is an ordered sequence of node declarations. Order is irrelevant to
// semantics but preserved so diffs and test output stay deterministic.
type Graph []Node

// ByID collapses the graph into an id-keyed map, applying the
// last-write-wins rule for duplicate ids.
func (g Graph) ByID() map[NodeID]Node {
	m := make(map[NodeID]Node, len(g))
	for _, n := range g {
		m[n.ID] = n
	}
	return m
}

// Dedup returns the graph with duplicate ids collapsed to their final
// definition, preserving the position of each id's first appearance.
func (g Graph) Dedup() Graph {
	byID := g.ByID()
	seen := make(map[NodeID]bool, len(g))
	out := make(Graph, 0, len(byID))
	for _, n := range g {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, byID[n.ID])
	}
	return out
}

// AssetURLs returns every buffer URL referenced anywhere in the graph, in
// declaration order, without duplicates.
func (g Graph) AssetURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	for _, n := range g {
		for _, u := range n.AssetURLs() {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls
}
