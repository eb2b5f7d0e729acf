package audio

// source adds one-shot playback state to nodes that emit on their own.
type source struct {
	started   bool
	stopped   bool
	startTime float64
	stopTime  float64
}

// Start schedules playback from context time when. Repeated starts are
// ignored, matching one-shot source semantics.
func (s *source) Start(when float64) {
	if s.started {
		return
	}
	s.started = true
	s.startTime = when
}

// Stop schedules the end of playback at context time when.
func (s *source) Stop(when float64) {
	if !s.started || s.stopped {
		return
	}
	s.stopped = true
	s.stopTime = when
}

// Playing reports whether the source has been started and not stopped.
func (s *source) Playing() bool { return s.started && !s.stopped }

func (c *Context) created() { c.count(func(s *Stats) { s.Creates++ }) }

// Oscillator is a periodic waveform source.
type Oscillator struct {
	*core
	source
	Waveform  string
	Frequency *Param
	Detune    *Param
}

func (c *Context) NewOscillator() *Oscillator {
	c.created()
	return &Oscillator{
		core:      newCore(c),
		Waveform:  "sine",
		Frequency: newParam(c, "frequency", 440),
		Detune:    newParam(c, "detune", 0),
	}
}

func (o *Oscillator) Param(name string) *Param {
	switch name {
	case "frequency":
		return o.Frequency
	case "detune":
		return o.Detune
	}
	return nil
}

func (o *Oscillator) Release() {
	o.Stop(o.ctx.CurrentTime())
	o.core.Release()
}

// Gain scales its input.
type Gain struct {
	*core
	Gain *Param
}

func (c *Context) NewGain() *Gain {
	c.created()
	return &Gain{core: newCore(c), Gain: newParam(c, "gain", 1)}
}

func (g *Gain) Param(name string) *Param {
	if name == "gain" {
		return g.Gain
	}
	return nil
}

// BufferSource plays a decoded buffer.
type BufferSource struct {
	*core
	source
	Buffer       *Buffer
	Loop         bool
	PlaybackRate *Param
}

func (c *Context) NewBufferSource() *BufferSource {
	c.created()
	return &BufferSource{
		core:         newCore(c),
		PlaybackRate: newParam(c, "playbackRate", 1),
	}
}

func (b *BufferSource) Param(name string) *Param {
	if name == "playbackRate" {
		return b.PlaybackRate
	}
	return nil
}

func (b *BufferSource) Release() {
	b.Stop(b.ctx.CurrentTime())
	b.core.Release()
}

// BiquadFilter is a second-order filter section.
type BiquadFilter struct {
	*core
	Mode      string
	Frequency *Param
	Detune    *Param
	Q         *Param
}

func (c *Context) NewBiquadFilter() *BiquadFilter {
	c.created()
	return &BiquadFilter{
		core:      newCore(c),
		Mode:      "lowpass",
		Frequency: newParam(c, "frequency", 350),
		Detune:    newParam(c, "detune", 0),
		Q:         newParam(c, "q", 1),
	}
}

func (f *BiquadFilter) Param(name string) *Param {
	switch name {
	case "frequency":
		return f.Frequency
	case "detune":
		return f.Detune
	case "q":
		return f.Q
	}
	return nil
}

// Delay delays its input, bounded by the max delay fixed at creation.
type Delay struct {
	*core
	MaxDelay  float64
	DelayTime *Param
}

func (c *Context) NewDelay(maxDelay float64) *Delay {
	c.created()
	return &Delay{
		core:      newCore(c),
		MaxDelay:  maxDelay,
		DelayTime: newParam(c, "delayTime", 0),
	}
}

func (d *Delay) Param(name string) *Param {
	if name == "delayTime" {
		return d.DelayTime
	}
	return nil
}

// Convolver convolves its input with an impulse-response buffer.
type Convolver struct {
	*core
	Buffer    *Buffer
	Normalize bool
}

func (c *Context) NewConvolver() *Convolver {
	c.created()
	return &Convolver{core: newCore(c)}
}

// DynamicsCompressor reduces dynamic range.
type DynamicsCompressor struct {
	*core
	Threshold   *Param
	Knee        *Param
	Ratio       *Param
	Attack      *Param
	ReleaseTime *Param
}

func (c *Context) NewDynamicsCompressor() *DynamicsCompressor {
	c.created()
	return &DynamicsCompressor{
		core:        newCore(c),
		Threshold:   newParam(c, "threshold", -24),
		Knee:        newParam(c, "knee", 30),
		Ratio:       newParam(c, "ratio", 12),
		Attack:      newParam(c, "attack", 0.003),
		ReleaseTime: newParam(c, "release", 0.25),
	}
}

func (d *DynamicsCompressor) Param(name string) *Param {
	switch name {
	case "threshold":
		return d.Threshold
	case "knee":
		return d.Knee
	case "ratio":
		return d.Ratio
	case "attack":
		return d.Attack
	case "release":
		return d.ReleaseTime
	}
	return nil
}

// Analyser taps the signal for inspection.
type Analyser struct {
	*core
	FFTSize               int
	MinDecibels           float64
	MaxDecibels           float64
	SmoothingTimeConstant float64
}

func (c *Context) NewAnalyser() *Analyser {
	c.created()
	return &Analyser{
		core:                  newCore(c),
		FFTSize:               2048,
		MinDecibels:           -100,
		MaxDecibels:           -30,
		SmoothingTimeConstant: 0.8,
	}
}

// Panner positions its input in 3D space.
type Panner struct {
	*core
	PanningModel  string
	DistanceModel string
	Position      [3]float64
	Orientation   [3]float64
}

func (c *Context) NewPanner() *Panner {
	c.created()
	return &Panner{
		core:          newCore(c),
		PanningModel:  "equalpower",
		DistanceModel: "inverse",
	}
}

// StereoPanner pans its input across the stereo field.
type StereoPanner struct {
	*core
	Pan *Param
}

func (c *Context) NewStereoPanner() *StereoPanner {
	c.created()
	return &StereoPanner{core: newCore(c), Pan: newParam(c, "pan", 0)}
}

func (s *StereoPanner) Param(name string) *Param {
	if name == "pan" {
		return s.Pan
	}
	return nil
}

// WaveShaper applies a distortion curve.
type WaveShaper struct {
	*core
	Curve      []float64
	Oversample string
}

func (c *Context) NewWaveShaper() *WaveShaper {
	c.created()
	return &WaveShaper{core: newCore(c), Oversample: "none"}
}

// ChannelMerger combines mono inputs.
type ChannelMerger struct {
	*core
	Inputs int
}

func (c *Context) NewChannelMerger(inputs int) *ChannelMerger {
	c.created()
	return &ChannelMerger{core: newCore(c), Inputs: inputs}
}

// ChannelSplitter splits a multi-channel input.
type ChannelSplitter struct {
	*core
	Outputs int
}

func (c *Context) NewChannelSplitter(outputs int) *ChannelSplitter {
	c.created()
	return &ChannelSplitter{core: newCore(c), Outputs: outputs}
}

// MediaElementSource bridges an external media element.
type MediaElementSource struct {
	*core
	ElementID string
}

func (c *Context) NewMediaElementSource(elementID string) *MediaElementSource {
	c.created()
	return &MediaElementSource{core: newCore(c), ElementID: elementID}
}

// MediaStreamDestination terminates into an external stream.
type MediaStreamDestination struct {
	*core
}

func (c *Context) NewMediaStreamDestination() *MediaStreamDestination {
	c.created()
	return &MediaStreamDestination{core: newCore(c)}
}

// MediaStreamSource bridges an external stream in.
type MediaStreamSource struct {
	*core
	StreamID string
}

func (c *Context) NewMediaStreamSource(streamID string) *MediaStreamSource {
	c.created()
	return &MediaStreamSource{core: newCore(c), StreamID: streamID}
}
