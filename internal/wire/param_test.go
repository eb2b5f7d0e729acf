package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavekit/wavegraph/internal/graph"
)

func TestDecodeParam(t *testing.T) {
	testCases := []struct {
		name      string
		data      string
		fallback  float64
		expectErr bool
		expected  graph.Param
	}{
		{
			name:     "absent falls back",
			data:     "",
			fallback: 440,
			expected: graph.Constant(440),
		},
		{
			name:     "null falls back",
			data:     "null",
			fallback: 1,
			expected: graph.Constant(1),
		},
		{
			name:     "bare number",
			data:     "0.25",
			expected: graph.Constant(0.25),
		},
		{
			name: "method tuples",
			data: `[["setValueAtTime", 0, 0], ["linearRampToValueAtTime", 1, 2.5]]`,
			expected: graph.Automated(
				graph.Automation{Method: graph.MethodSetValue, Value: 0, Time: 0},
				graph.Automation{Method: graph.MethodLinearRamp, Value: 1, Time: 2.5},
			),
		},
		{
			name: "setTargetAtTime carries the time constant",
			data: `[["setTargetAtTime", 0.5, 1, 0.3]]`,
			expected: graph.Automated(
				graph.Automation{Method: graph.MethodSetTarget, Value: 0.5, Time: 1, TimeConstant: 0.3},
			),
		},
		{
			name: "setValueCurveAtTime carries the curve",
			data: `[["setValueCurveAtTime", [0, 0.5, 1], 2, 3]]`,
			expected: graph.Automated(
				graph.Automation{Method: graph.MethodSetValueCurve, Curve: []float64{0, 0.5, 1}, Time: 2, Duration: 3},
			),
		},
		{
			name:      "unknown method",
			data:      `[["rampToValue", 1, 0]]`,
			expectErr: true,
		},
		{
			name:      "tuple too short",
			data:      `[["setValueAtTime", 1]]`,
			expectErr: true,
		},
		{
			name:      "tuple not an array",
			data:      `["setValueAtTime"]`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := decodeParam([]byte(tc.data), tc.fallback)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestEncodeParam(t *testing.T) {
	t.Run("constant", func(t *testing.T) {
		assert.JSONEq(t, `0.5`, string(encodeParam(graph.Constant(0.5))))
	})

	t.Run("automation tuples", func(t *testing.T) {
		p := graph.Automated(
			graph.Automation{Method: graph.MethodSetValue, Value: 0, Time: 0},
			graph.Automation{Method: graph.MethodSetTarget, Value: 1, Time: 2, TimeConstant: 0.5},
			graph.Automation{Method: graph.MethodSetValueCurve, Curve: []float64{0, 1}, Time: 3, Duration: 1},
		)
		assert.JSONEq(t,
			`[["setValueAtTime", 0, 0], ["setTargetAtTime", 1, 2, 0.5], ["setValueCurveAtTime", [0, 1], 3, 1]]`,
			string(encodeParam(p)))
	})
}

func TestDecodePropsDefaults(t *testing.T) {
	testCases := []struct {
		name     string
		doc      string
		expected graph.Props
	}{
		{
			name: "oscillator",
			doc:  `{"x": {"node": "oscillator"}}`,
			expected: graph.Oscillator{
				Waveform:  "sine",
				Frequency: graph.Constant(440),
				Detune:    graph.Constant(0),
			},
		},
		{
			name:     "gain",
			doc:      `{"x": {"node": "gain"}}`,
			expected: graph.Gain{Gain: graph.Constant(1)},
		},
		{
			name: "biquad filter",
			doc:  `{"x": {"node": "biquadFilter"}}`,
			expected: graph.BiquadFilter{
				Mode:      "lowpass",
				Frequency: graph.Constant(350),
				Detune:    graph.Constant(0),
				Q:         graph.Constant(1),
			},
		},
		{
			name:     "buffer source",
			doc:      `{"x": {"node": "bufferSource", "url": "http://host/a.wav"}}`,
			expected: graph.BufferSource{URL: "http://host/a.wav", PlaybackRate: graph.Constant(1)},
		},
		{
			name: "dynamics compressor",
			doc:  `{"x": {"node": "dynamicsCompressor"}}`,
			expected: graph.DynamicsCompressor{
				Threshold: graph.Constant(-24),
				Knee:      graph.Constant(30),
				Ratio:     graph.Constant(12),
				Attack:    graph.Constant(0.003),
				Release:   graph.Constant(0.25),
			},
		},
		{
			name: "analyser",
			doc:  `{"x": {"node": "analyser"}}`,
			expected: graph.Analyser{
				FFTSize:               2048,
				MinDecibels:           -100,
				MaxDecibels:           -30,
				SmoothingTimeConstant: 0.8,
			},
		},
		{
			name:     "panner",
			doc:      `{"x": {"node": "panner"}}`,
			expected: graph.Panner{PanningModel: "equalpower", DistanceModel: "inverse"},
		},
		{
			name:     "channel merger",
			doc:      `{"x": {"node": "channelMerger"}}`,
			expected: graph.ChannelMerger{Inputs: 6},
		},
		{
			name:     "delay",
			doc:      `{"x": {"node": "delay"}}`,
			expected: graph.Delay{MaxDelay: 1, DelayTime: graph.Constant(0)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := DecodeGraph([]byte(tc.doc))
			require.NoError(t, err)
			require.Len(t, g, 1)
			assert.Equal(t, tc.expected, g[0].Props)
		})
	}
}
