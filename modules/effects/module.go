// Package effects registers the handlers for in-line processing nodes:
// gain, filtering, delay, convolution, compression and wave shaping.
package effects

import (
	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/graph"
	"github.com/wavekit/wavegraph/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// Register registers every effect kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(graph.KindGain, &registry.RegisteredKind{
		Create: createGain,
		Update: updateGain,
	})
	r.RegisterKind(graph.KindBiquadFilter, &registry.RegisteredKind{
		Create: createBiquadFilter,
		Update: updateBiquadFilter,
	})
	r.RegisterKind(graph.KindDelay, &registry.RegisteredKind{
		Create: createDelay,
		Update: updateDelay,
	})
	r.RegisterKind(graph.KindConvolver, &registry.RegisteredKind{
		Create: createConvolver,
		Update: updateConvolver,
	})
	r.RegisterKind(graph.KindDynamicsCompressor, &registry.RegisteredKind{
		Create: createCompressor,
		Update: updateCompressor,
	})
	r.RegisterKind(graph.KindWaveShaper, &registry.RegisteredKind{
		Create: createWaveShaper,
		Update: updateWaveShaper,
	})
}

func createGain(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.Gain)
	n := bc.Audio.NewGain()
	registry.ApplyParam(n.Gain, p.Gain)
	return n, nil
}

func updateGain(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.Gain)
	registry.ApplyParam(node.(*audio.Gain).Gain, p.Gain)
	return nil
}

func createBiquadFilter(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.BiquadFilter)
	n := bc.Audio.NewBiquadFilter()
	applyBiquad(n, p)
	return n, nil
}

func updateBiquadFilter(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	applyBiquad(node.(*audio.BiquadFilter), props.(graph.BiquadFilter))
	return nil
}

func applyBiquad(n *audio.BiquadFilter, p graph.BiquadFilter) {
	n.Mode = p.Mode
	registry.ApplyParam(n.Frequency, p.Frequency)
	registry.ApplyParam(n.Detune, p.Detune)
	registry.ApplyParam(n.Q, p.Q)
}

func createDelay(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.Delay)
	n := bc.Audio.NewDelay(p.MaxDelay)
	registry.ApplyParam(n.DelayTime, p.DelayTime)
	return n, nil
}

func updateDelay(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.Delay)
	n := node.(*audio.Delay)
	n.MaxDelay = p.MaxDelay
	registry.ApplyParam(n.DelayTime, p.DelayTime)
	return nil
}

func createConvolver(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.Convolver)
	n := bc.Audio.NewConvolver()
	n.Buffer = bc.Buffer(p.URL)
	n.Normalize = p.Normalize
	return n, nil
}

func updateConvolver(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.Convolver)
	n := node.(*audio.Convolver)
	n.Buffer = bc.Buffer(p.URL)
	n.Normalize = p.Normalize
	return nil
}

func createCompressor(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	n := bc.Audio.NewDynamicsCompressor()
	applyCompressor(n, props.(graph.DynamicsCompressor))
	return n, nil
}

func updateCompressor(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	applyCompressor(node.(*audio.DynamicsCompressor), props.(graph.DynamicsCompressor))
	return nil
}

func applyCompressor(n *audio.DynamicsCompressor, p graph.DynamicsCompressor) {
	registry.ApplyParam(n.Threshold, p.Threshold)
	registry.ApplyParam(n.Knee, p.Knee)
	registry.ApplyParam(n.Ratio, p.Ratio)
	registry.ApplyParam(n.Attack, p.Attack)
	registry.ApplyParam(n.ReleaseTime, p.Release)
}

func createWaveShaper(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.WaveShaper)
	n := bc.Audio.NewWaveShaper()
	n.Curve = append([]float64(nil), p.Curve...)
	n.Oversample = p.Oversample
	return n, nil
}

func updateWaveShaper(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.WaveShaper)
	n := node.(*audio.WaveShaper)
	n.Curve = append([]float64(nil), p.Curve...)
	n.Oversample = p.Oversample
	return nil
}
