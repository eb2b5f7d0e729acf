// Package wire implements the JSON interchange format for declarative
// graphs: an object keyed by node id, each value tagged with a "node" kind
// and carrying kind-specific fields plus an optional "output" declaration.
//
// Decoding is liberal and accepts every historical output encoding (absent,
// null, bare string, array of strings or objects, single object). Encoding
// is canonical: the field is omitted when a node has no outputs, a single
// default-input connection is written as a bare string, and anything else
// as an array whose param-targeted entries are {key, destination} objects.
package wire

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wavekit/wavegraph/internal/graph"
)

// DecodeGraph parses wire-format JSON into a declarative graph. The JSON
// object is unordered, so nodes are returned sorted by id to keep decoding
// deterministic.
func DecodeGraph(data []byte) (graph.Graph, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed graph document: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := make(graph.Graph, 0, len(raw))
	for _, id := range ids {
		node, err := decodeNode(graph.NodeID(id), raw[id])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", id, err)
		}
		g = append(g, node)
	}
	return g, nil
}

// EncodeGraph renders a graph into canonical wire-format JSON. Duplicate
// ids are collapsed last-write-wins first, matching the model invariant.
func EncodeGraph(g graph.Graph) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(g))
	for _, n := range g.Dedup() {
		enc, err := encodeNode(n)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		out[string(n.ID)] = enc
	}
	return json.Marshal(out)
}

func decodeNode(id graph.NodeID, data []byte) (graph.Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return graph.Node{}, fmt.Errorf("malformed node object: %w", err)
	}

	kindRaw, ok := fields["node"]
	if !ok {
		return graph.Node{}, fmt.Errorf("missing \"node\" kind tag")
	}
	var kind string
	if err := json.Unmarshal(kindRaw, &kind); err != nil {
		return graph.Node{}, fmt.Errorf("kind tag: %w", err)
	}

	props, err := decodeProps(graph.Kind(kind), fields)
	if err != nil {
		return graph.Node{}, err
	}

	outputs, err := decodeOutputs(fields["output"])
	if err != nil {
		return graph.Node{}, err
	}

	return graph.Node{ID: id, Outputs: outputs, Props: props}, nil
}

func encodeNode(n graph.Node) (json.RawMessage, error) {
	fields, err := encodeProps(n.Props)
	if err != nil {
		return nil, err
	}
	fields["node"] = mustMarshal(string(n.Props.Kind()))

	if out := encodeOutputs(n.Outputs); out != nil {
		fields["output"] = out
	}
	return json.Marshal(fields)
}

// decodeOutputs accepts: absent/null, "id", {key, destination}, or an array
// mixing both entry forms.
func decodeOutputs(data json.RawMessage) ([]graph.Output, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("output list: %w", err)
		}
		outs := make([]graph.Output, 0, len(entries))
		for _, e := range entries {
			o, err := decodeOutputEntry(e)
			if err != nil {
				return nil, err
			}
			outs = append(outs, o)
		}
		return outs, nil
	default:
		o, err := decodeOutputEntry(data)
		if err != nil {
			return nil, err
		}
		return []graph.Output{o}, nil
	}
}

func decodeOutputEntry(data json.RawMessage) (graph.Output, error) {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Key         string `json:"key"`
			Destination string `json:"destination"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return graph.Output{}, fmt.Errorf("output entry: %w", err)
		}
		if obj.Key == "" {
			return graph.Output{}, fmt.Errorf("output entry missing key")
		}
		name := graph.ParamName(obj.Destination)
		if !graph.KnownParam(name) {
			return graph.Output{}, fmt.Errorf("unknown destination %q", obj.Destination)
		}
		return graph.Output{Target: graph.NodeID(obj.Key), Param: name}, nil
	}

	var target string
	if err := json.Unmarshal(data, &target); err != nil {
		return graph.Output{}, fmt.Errorf("output entry: %w", err)
	}
	return graph.Output{Target: graph.NodeID(target)}, nil
}

func encodeOutputs(outs []graph.Output) json.RawMessage {
	if len(outs) == 0 {
		return nil
	}
	if len(outs) == 1 && outs[0].Param == "" {
		return mustMarshal(string(outs[0].Target))
	}
	entries := make([]any, 0, len(outs))
	for _, o := range outs {
		if o.Param == "" {
			entries = append(entries, string(o.Target))
			continue
		}
		entries = append(entries, map[string]string{
			"key":         string(o.Target),
			"destination": string(o.Param),
		})
	}
	return mustMarshal(entries)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
