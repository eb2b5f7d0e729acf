package graph

// Kind tags a node's properties variant. The set is closed: the applier
// treats an unrecognized kind as a contract violation, not bad input.
type Kind string

const (
	KindOscillator             Kind = "oscillator"
	KindGain                   Kind = "gain"
	KindBufferSource           Kind = "bufferSource"
	KindBiquadFilter           Kind = "biquadFilter"
	KindDelay                  Kind = "delay"
	KindConvolver              Kind = "convolver"
	KindDynamicsCompressor     Kind = "dynamicsCompressor"
	KindAnalyser               Kind = "analyser"
	KindPanner                 Kind = "panner"
	KindStereoPanner           Kind = "stereoPanner"
	KindWaveShaper             Kind = "waveShaper"
	KindChannelMerger          Kind = "channelMerger"
	KindChannelSplitter        Kind = "channelSplitter"
	KindMediaElementSource     Kind = "mediaElementSource"
	KindMediaStreamDestination Kind = "mediaStreamDestination"
	KindMediaStreamSource      Kind = "mediaStreamSource"
)

// Props is the tagged union of kind-specific node properties. Variants are
// plain value structs so reflect.DeepEqual gives structural equality.
type Props interface {
	Kind() Kind
}

// Oscillator is a periodic waveform source.
type Oscillator struct {
	Waveform  string // sine, square, sawtooth, triangle
	Frequency Param
	Detune    Param
}

func (Oscillator) Kind() Kind { return KindOscillator }

// Gain scales its input signal.
type Gain struct {
	Gain Param
}

func (Gain) Kind() Kind { return KindGain }

// BufferSource plays a decoded audio asset fetched from URL. The node is
// not instantiable until the asset is decoded.
type BufferSource struct {
	URL          string
	Loop         bool
	PlaybackRate Param
}

func (BufferSource) Kind() Kind { return KindBufferSource }

// BiquadFilter is a second-order filter section.
type BiquadFilter struct {
	Mode      string // lowpass, highpass, bandpass, notch, ...
	Frequency Param
	Detune    Param
	Q         Param
}

func (BiquadFilter) Kind() Kind { return KindBiquadFilter }

// Delay delays its input by DelayTime seconds, bounded by MaxDelay.
type Delay struct {
	MaxDelay  float64
	DelayTime Param
}

func (Delay) Kind() Kind { return KindDelay }

// Convolver convolves its input with an impulse response fetched from URL.
// Like BufferSource it is held back until the asset is decoded.
type Convolver struct {
	URL       string
	Normalize bool
}

func (Convolver) Kind() Kind { return KindConvolver }

// DynamicsCompressor reduces dynamic range.
type DynamicsCompressor struct {
	Threshold Param
	Knee      Param
	Ratio     Param
	Attack    Param
	Release   Param
}

func (DynamicsCompressor) Kind() Kind { return KindDynamicsCompressor }

// Analyser taps the signal for inspection without altering it.
type Analyser struct {
	FFTSize               int
	MinDecibels           float64
	MaxDecibels           float64
	SmoothingTimeConstant float64
}

func (Analyser) Kind() Kind { return KindAnalyser }

// Panner positions its input in 3D space.
type Panner struct {
	PanningModel  string // equalpower, HRTF
	DistanceModel string // linear, inverse, exponential
	Position      [3]float64
	Orientation   [3]float64
}

func (Panner) Kind() Kind { return KindPanner }

// StereoPanner pans its input across the stereo field.
type StereoPanner struct {
	Pan Param
}

func (StereoPanner) Kind() Kind { return KindStereoPanner }

// WaveShaper applies a nonlinear distortion curve.
type WaveShaper struct {
	Curve      []float64
	Oversample string // none, 2x, 4x
}

func (WaveShaper) Kind() Kind { return KindWaveShaper }

// ChannelMerger combines mono inputs into one multi-channel output.
type ChannelMerger struct {
	Inputs int
}

func (ChannelMerger) Kind() Kind { return KindChannelMerger }

// ChannelSplitter splits a multi-channel input into mono outputs.
type ChannelSplitter struct {
	Outputs int
}

func (ChannelSplitter) Kind() Kind { return KindChannelSplitter }

// MediaElementSource bridges an external media element into the graph.
type MediaElementSource struct {
	ElementID string
}

func (MediaElementSource) Kind() Kind { return KindMediaElementSource }

// MediaStreamDestination terminates the graph into an external media stream.
type MediaStreamDestination struct{}

func (MediaStreamDestination) Kind() Kind { return KindMediaStreamDestination }

// MediaStreamSource bridges an external media stream into the graph.
type MediaStreamSource struct {
	StreamID string
}

func (MediaStreamSource) Kind() Kind { return KindMediaStreamSource }
