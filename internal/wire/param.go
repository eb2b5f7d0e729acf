package wire

import (
	"encoding/json"
	"fmt"

	"github.com/wavekit/wavegraph/internal/graph"
)

// decodeParam accepts a bare number (constant) or an array of automation
// method tuples, each tuple led by the method-name string.
func decodeParam(data json.RawMessage, fallback float64) (graph.Param, error) {
	if len(data) == 0 || string(data) == "null" {
		return graph.Constant(fallback), nil
	}

	if data[0] != '[' {
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return graph.Param{}, fmt.Errorf("param: %w", err)
		}
		return graph.Constant(v), nil
	}

	var tuples []json.RawMessage
	if err := json.Unmarshal(data, &tuples); err != nil {
		return graph.Param{}, fmt.Errorf("param method list: %w", err)
	}

	events := make([]graph.Automation, 0, len(tuples))
	for i, t := range tuples {
		ev, err := decodeMethodTuple(t)
		if err != nil {
			return graph.Param{}, fmt.Errorf("method %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return graph.Automated(events...), nil
}

func decodeMethodTuple(data json.RawMessage) (graph.Automation, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return graph.Automation{}, fmt.Errorf("malformed tuple: %w", err)
	}
	if len(parts) < 3 {
		return graph.Automation{}, fmt.Errorf("tuple needs at least a method, value and time")
	}

	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return graph.Automation{}, fmt.Errorf("method name: %w", err)
	}
	method := graph.Method(name)
	if !graph.KnownMethod(method) {
		return graph.Automation{}, fmt.Errorf("unknown automation method %q", name)
	}

	ev := graph.Automation{Method: method}

	if method == graph.MethodSetValueCurve {
		// [name, curve, time, duration]
		if err := json.Unmarshal(parts[1], &ev.Curve); err != nil {
			return graph.Automation{}, fmt.Errorf("curve: %w", err)
		}
		if err := json.Unmarshal(parts[2], &ev.Time); err != nil {
			return graph.Automation{}, fmt.Errorf("time: %w", err)
		}
		if len(parts) > 3 {
			if err := json.Unmarshal(parts[3], &ev.Duration); err != nil {
				return graph.Automation{}, fmt.Errorf("duration: %w", err)
			}
		}
		return ev, nil
	}

	if err := json.Unmarshal(parts[1], &ev.Value); err != nil {
		return graph.Automation{}, fmt.Errorf("value: %w", err)
	}
	if err := json.Unmarshal(parts[2], &ev.Time); err != nil {
		return graph.Automation{}, fmt.Errorf("time: %w", err)
	}
	if method == graph.MethodSetTarget {
		// [name, target, time, timeConstant]
		if len(parts) > 3 {
			if err := json.Unmarshal(parts[3], &ev.TimeConstant); err != nil {
				return graph.Automation{}, fmt.Errorf("time constant: %w", err)
			}
		}
	}
	return ev, nil
}

func encodeParam(p graph.Param) json.RawMessage {
	if p.IsConstant() {
		return mustMarshal(p.Value)
	}
	tuples := make([]any, 0, len(p.Events))
	for _, ev := range p.Events {
		switch ev.Method {
		case graph.MethodSetValueCurve:
			tuples = append(tuples, []any{string(ev.Method), ev.Curve, ev.Time, ev.Duration})
		case graph.MethodSetTarget:
			tuples = append(tuples, []any{string(ev.Method), ev.Value, ev.Time, ev.TimeConstant})
		default:
			tuples = append(tuples, []any{string(ev.Method), ev.Value, ev.Time})
		}
	}
	return mustMarshal(tuples)
}
