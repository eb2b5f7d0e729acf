// Package routing registers the handlers for spatialization, channel
// plumbing and signal-tap nodes.
package routing

import (
	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/graph"
	"github.com/wavekit/wavegraph/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// Register registers every routing kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(graph.KindPanner, &registry.RegisteredKind{
		Create: createPanner,
		Update: updatePanner,
	})
	r.RegisterKind(graph.KindStereoPanner, &registry.RegisteredKind{
		Create: createStereoPanner,
		Update: updateStereoPanner,
	})
	r.RegisterKind(graph.KindAnalyser, &registry.RegisteredKind{
		Create: createAnalyser,
		Update: updateAnalyser,
	})
	r.RegisterKind(graph.KindChannelMerger, &registry.RegisteredKind{
		Create: createChannelMerger,
		Update: updateChannelMerger,
	})
	r.RegisterKind(graph.KindChannelSplitter, &registry.RegisteredKind{
		Create: createChannelSplitter,
		Update: updateChannelSplitter,
	})
	r.RegisterKind(graph.KindMediaStreamDestination, &registry.RegisteredKind{
		Create: createMediaStreamDestination,
		Update: updateMediaStreamDestination,
	})
}

func createPanner(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	n := bc.Audio.NewPanner()
	applyPanner(n, props.(graph.Panner))
	return n, nil
}

func updatePanner(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	applyPanner(node.(*audio.Panner), props.(graph.Panner))
	return nil
}

func applyPanner(n *audio.Panner, p graph.Panner) {
	n.PanningModel = p.PanningModel
	n.DistanceModel = p.DistanceModel
	n.Position = p.Position
	n.Orientation = p.Orientation
}

func createStereoPanner(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.StereoPanner)
	n := bc.Audio.NewStereoPanner()
	registry.ApplyParam(n.Pan, p.Pan)
	return n, nil
}

func updateStereoPanner(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.StereoPanner)
	registry.ApplyParam(node.(*audio.StereoPanner).Pan, p.Pan)
	return nil
}

func createAnalyser(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	n := bc.Audio.NewAnalyser()
	applyAnalyser(n, props.(graph.Analyser))
	return n, nil
}

func updateAnalyser(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	applyAnalyser(node.(*audio.Analyser), props.(graph.Analyser))
	return nil
}

func applyAnalyser(n *audio.Analyser, p graph.Analyser) {
	n.FFTSize = p.FFTSize
	n.MinDecibels = p.MinDecibels
	n.MaxDecibels = p.MaxDecibels
	n.SmoothingTimeConstant = p.SmoothingTimeConstant
}

func createChannelMerger(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.ChannelMerger)
	return bc.Audio.NewChannelMerger(p.Inputs), nil
}

func updateChannelMerger(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.ChannelMerger)
	node.(*audio.ChannelMerger).Inputs = p.Inputs
	return nil
}

func createChannelSplitter(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	p := props.(graph.ChannelSplitter)
	return bc.Audio.NewChannelSplitter(p.Outputs), nil
}

func updateChannelSplitter(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	p := props.(graph.ChannelSplitter)
	node.(*audio.ChannelSplitter).Outputs = p.Outputs
	return nil
}

func createMediaStreamDestination(bc registry.BuildContext, props graph.Props) (audio.Node, error) {
	return bc.Audio.NewMediaStreamDestination(), nil
}

func updateMediaStreamDestination(bc registry.BuildContext, node audio.Node, props graph.Props) error {
	return nil
}
