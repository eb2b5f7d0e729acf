package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/graph"
	"github.com/wavekit/wavegraph/internal/registry"
)

func newBuildContext(t *testing.T, buf *audio.Buffer) (registry.BuildContext, *registry.Registry) {
	t.Helper()
	ctx, err := audio.NewContext()
	require.NoError(t, err)

	reg := registry.New()
	(&Module{}).Register(reg)

	return registry.BuildContext{
		Audio:  ctx,
		Buffer: func(string) *audio.Buffer { return buf },
	}, reg
}

func TestRegisterCoversAllSourceKinds(t *testing.T) {
	_, reg := newBuildContext(t, nil)
	for _, kind := range []graph.Kind{
		graph.KindOscillator,
		graph.KindBufferSource,
		graph.KindMediaElementSource,
		graph.KindMediaStreamSource,
	} {
		_, ok := reg.Lookup(kind)
		assert.True(t, ok, string(kind))
	}
}

func TestOscillatorLifecycle(t *testing.T) {
	bc, reg := newBuildContext(t, nil)
	h, _ := reg.Lookup(graph.KindOscillator)

	node, err := h.Create(bc, graph.Oscillator{
		Waveform:  "square",
		Frequency: graph.Constant(220),
		Detune:    graph.Constant(5),
	})
	require.NoError(t, err)

	osc := node.(*audio.Oscillator)
	assert.Equal(t, "square", osc.Waveform)
	assert.Equal(t, 220.0, osc.Frequency.Value())
	assert.Equal(t, 5.0, osc.Detune.Value())
	assert.True(t, osc.Playing(), "sources start on creation")

	err = h.Update(bc, node, graph.Oscillator{
		Waveform:  "triangle",
		Frequency: graph.Constant(330),
		Detune:    graph.Constant(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "triangle", osc.Waveform)
	assert.Equal(t, 330.0, osc.Frequency.Value())
	assert.Equal(t, 1, bc.Audio.Stats().Creates, "update reuses the live node")
}

func TestBufferSourceLifecycle(t *testing.T) {
	buf := &audio.Buffer{SampleRate: 44100, Data: [][]float32{{0, 1}}}
	bc, reg := newBuildContext(t, buf)
	h, _ := reg.Lookup(graph.KindBufferSource)

	node, err := h.Create(bc, graph.BufferSource{
		URL:          "https://cdn.example.com/kick.wav",
		Loop:         true,
		PlaybackRate: graph.Constant(1.5),
	})
	require.NoError(t, err)

	src := node.(*audio.BufferSource)
	assert.Same(t, buf, src.Buffer)
	assert.True(t, src.Loop)
	assert.Equal(t, 1.5, src.PlaybackRate.Value())
	assert.True(t, src.Playing())

	err = h.Update(bc, node, graph.BufferSource{
		URL:          "https://cdn.example.com/kick.wav",
		Loop:         false,
		PlaybackRate: graph.Constant(1),
	})
	require.NoError(t, err)
	assert.False(t, src.Loop)
	assert.Equal(t, 1.0, src.PlaybackRate.Value())
}

func TestMediaBridges(t *testing.T) {
	bc, reg := newBuildContext(t, nil)

	t.Run("media element source", func(t *testing.T) {
		h, _ := reg.Lookup(graph.KindMediaElementSource)
		node, err := h.Create(bc, graph.MediaElementSource{ElementID: "player-1"})
		require.NoError(t, err)
		assert.Equal(t, "player-1", node.(*audio.MediaElementSource).ElementID)

		require.NoError(t, h.Update(bc, node, graph.MediaElementSource{ElementID: "player-2"}))
		assert.Equal(t, "player-2", node.(*audio.MediaElementSource).ElementID)
	})

	t.Run("media stream source", func(t *testing.T) {
		h, _ := reg.Lookup(graph.KindMediaStreamSource)
		node, err := h.Create(bc, graph.MediaStreamSource{StreamID: "mic-1"})
		require.NoError(t, err)
		assert.Equal(t, "mic-1", node.(*audio.MediaStreamSource).StreamID)

		require.NoError(t, h.Update(bc, node, graph.MediaStreamSource{StreamID: "mic-2"}))
		assert.Equal(t, "mic-2", node.(*audio.MediaStreamSource).StreamID)
	})
}
