// Package sources registers the handlers for nodes that originate signal:
// oscillators, buffer players and media bridges. Sources start playing the
// moment they are created; the reconciler creates them only once their
// referenced assets are decoded.
package sources

import (
	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/graph"
	"github.com/wavekit/wavegraph/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// Register registers every source kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(graph.KindOscillator, &registry.RegisteredKind{
		Create: createOscillator,
		Update: updateOscillator,
	})
	r.RegisterKind(graph.KindBufferSource, &registry.RegisteredKind{
		Create: createBufferSource,
		Update: updateBufferSource,
	})
	r.RegisterKind(graph.KindMediaElementSource, &registry.RegisteredKind{
		Create: createMediaElementSource,
		Update: updateMediaElementSource,
	})
	r.RegisterKind(graph.KindMediaStreamSource, &registry.RegisteredKind{
		Create: createMediaStreamSource,
		Update: updateMediaStreamSource,
	})
}

func createOscillator(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.Oscillator)
	n := bc.Audio.NewOscillator()
	n.Waveform = p.Waveform
	registry.ApplyParam(n.Frequency, p.Frequency)
	registry.ApplyParam(n.Detune, p.Detune)
	n.Start(bc.Audio.CurrentTime())
	return n, nil
}

func updateOscillator(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.Oscillator)
	n := node.(*audio.Oscillator)
	n.Waveform = p.Waveform
	registry.ApplyParam(n.Frequency, p.Frequency)
	registry.ApplyParam(n.Detune, p.Detune)
	return nil
}

func createBufferSource(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.BufferSource)
	n := bc.Audio.NewBufferSource()
	n.Buffer = bc.Buffer(p.URL)
	n.Loop = p.Loop
	registry.ApplyParam(n.PlaybackRate, p.PlaybackRate)
	n.Start(bc.Audio.CurrentTime())
	return n, nil
}

func updateBufferSource(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.BufferSource)
	n := node.(*audio.BufferSource)
	n.Buffer = bc.Buffer(p.URL)
	n.Loop = p.Loop
	registry.ApplyParam(n.PlaybackRate, p.PlaybackRate)
	return nil
}

func createMediaElementSource(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.MediaElementSource)
	return bc.Audio.NewMediaElementSource(p.ElementID), nil
}

func updateMediaElementSource(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.MediaElementSource)
	node.(*audio.MediaElementSource).ElementID = p.ElementID
	return nil
}

func createMediaStreamSource(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.MediaStreamSource)
	return bc.Audio.NewMediaStreamSource(p.StreamID), nil
}

func updateMediaStreamSource(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.MediaStreamSource)
	node.(*audio.MediaStreamSource).StreamID = p.StreamID
	return nil
}
