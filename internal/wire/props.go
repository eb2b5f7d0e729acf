package wire

import (
	"encoding/json"
	"fmt"

	"github.com/wavekit/wavegraph/internal/graph"
)

// Web-Audio-aligned defaults applied when a kind-specific field is absent
// from the wire document. The encoder always writes every field, so a
// decode/encode round trip is stable.
const (
	defaultWaveform     = "sine"
	defaultFilterMode   = "lowpass"
	defaultOversample   = "none"
	defaultPanModel     = "equalpower"
	defaultDistModel    = "inverse"
	defaultFFTSize      = 2048
	defaultChannelCount = 6
)

func decodeProps(kind graph.Kind, f map[string]json.RawMessage) (graph.Props, error) {
	switch kind {
	case graph.KindOscillator:
		freq, err := decodeParam(f["frequency"], 440)
		if err != nil {
			return nil, fmt.Errorf("frequency: %w", err)
		}
		detune, err := decodeParam(f["detune"], 0)
		if err != nil {
			return nil, fmt.Errorf("detune: %w", err)
		}
		return graph.Oscillator{
			Waveform:  getString(f, "waveform", defaultWaveform),
			Frequency: freq,
			Detune:    detune,
		}, nil

	case graph.KindGain:
		gain, err := decodeParam(f["gain"], 1)
		if err != nil {
			return nil, fmt.Errorf("gain: %w", err)
		}
		return graph.Gain{Gain: gain}, nil

	case graph.KindBufferSource:
		rate, err := decodeParam(f["playbackRate"], 1)
		if err != nil {
			return nil, fmt.Errorf("playbackRate: %w", err)
		}
		return graph.BufferSource{
			URL:          getString(f, "url", ""),
			Loop:         getBool(f, "loop"),
			PlaybackRate: rate,
		}, nil

	case graph.KindBiquadFilter:
		freq, err := decodeParam(f["frequency"], 350)
		if err != nil {
			return nil, fmt.Errorf("frequency: %w", err)
		}
		detune, err := decodeParam(f["detune"], 0)
		if err != nil {
			return nil, fmt.Errorf("detune: %w", err)
		}
		q, err := decodeParam(f["q"], 1)
		if err != nil {
			return nil, fmt.Errorf("q: %w", err)
		}
		return graph.BiquadFilter{
			Mode:      getString(f, "mode", defaultFilterMode),
			Frequency: freq,
			Detune:    detune,
			Q:         q,
		}, nil

	case graph.KindDelay:
		dt, err := decodeParam(f["delayTime"], 0)
		if err != nil {
			return nil, fmt.Errorf("delayTime: %w", err)
		}
		return graph.Delay{
			MaxDelay:  getFloat(f, "maxDelayTime", 1),
			DelayTime: dt,
		}, nil

	case graph.KindConvolver:
		return graph.Convolver{
			URL:       getString(f, "url", ""),
			Normalize: getBool(f, "normalize"),
		}, nil

	case graph.KindDynamicsCompressor:
		p := graph.DynamicsCompressor{}
		var err error
		if p.Threshold, err = decodeParam(f["threshold"], -24); err != nil {
			return nil, fmt.Errorf("threshold: %w", err)
		}
		if p.Knee, err = decodeParam(f["knee"], 30); err != nil {
			return nil, fmt.Errorf("knee: %w", err)
		}
		if p.Ratio, err = decodeParam(f["ratio"], 12); err != nil {
			return nil, fmt.Errorf("ratio: %w", err)
		}
		if p.Attack, err = decodeParam(f["attack"], 0.003); err != nil {
			return nil, fmt.Errorf("attack: %w", err)
		}
		if p.Release, err = decodeParam(f["release"], 0.25); err != nil {
			return nil, fmt.Errorf("release: %w", err)
		}
		return p, nil

	case graph.KindAnalyser:
		return graph.Analyser{
			FFTSize:               getInt(f, "fftSize", defaultFFTSize),
			MinDecibels:           getFloat(f, "minDecibels", -100),
			MaxDecibels:           getFloat(f, "maxDecibels", -30),
			SmoothingTimeConstant: getFloat(f, "smoothingTimeConstant", 0.8),
		}, nil

	case graph.KindPanner:
		p := graph.Panner{
			PanningModel:  getString(f, "panningModel", defaultPanModel),
			DistanceModel: getString(f, "distanceModel", defaultDistModel),
		}
		if err := getVec3(f, "position", &p.Position); err != nil {
			return nil, err
		}
		if err := getVec3(f, "orientation", &p.Orientation); err != nil {
			return nil, err
		}
		return p, nil

	case graph.KindStereoPanner:
		pan, err := decodeParam(f["pan"], 0)
		if err != nil {
			return nil, fmt.Errorf("pan: %w", err)
		}
		return graph.StereoPanner{Pan: pan}, nil

	case graph.KindWaveShaper:
		p := graph.WaveShaper{Oversample: getString(f, "oversample", defaultOversample)}
		if raw, ok := f["curve"]; ok {
			if err := json.Unmarshal(raw, &p.Curve); err != nil {
				return nil, fmt.Errorf("curve: %w", err)
			}
		}
		return p, nil

	case graph.KindChannelMerger:
		return graph.ChannelMerger{Inputs: getInt(f, "inputs", defaultChannelCount)}, nil

	case graph.KindChannelSplitter:
		return graph.ChannelSplitter{Outputs: getInt(f, "outputs", defaultChannelCount)}, nil

	case graph.KindMediaElementSource:
		return graph.MediaElementSource{ElementID: getString(f, "element", "")}, nil

	case graph.KindMediaStreamDestination:
		return graph.MediaStreamDestination{}, nil

	case graph.KindMediaStreamSource:
		return graph.MediaStreamSource{StreamID: getString(f, "stream", "")}, nil
	}

	return nil, fmt.Errorf("unknown node kind %q", kind)
}

func encodeProps(p graph.Props) (map[string]json.RawMessage, error) {
	f := make(map[string]json.RawMessage)
	switch v := p.(type) {
	case graph.Oscillator:
		f["waveform"] = mustMarshal(v.Waveform)
		f["frequency"] = encodeParam(v.Frequency)
		f["detune"] = encodeParam(v.Detune)
	case graph.Gain:
		f["gain"] = encodeParam(v.Gain)
	case graph.BufferSource:
		f["url"] = mustMarshal(v.URL)
		f["loop"] = mustMarshal(v.Loop)
		f["playbackRate"] = encodeParam(v.PlaybackRate)
	case graph.BiquadFilter:
		f["mode"] = mustMarshal(v.Mode)
		f["frequency"] = encodeParam(v.Frequency)
		f["detune"] = encodeParam(v.Detune)
		f["q"] = encodeParam(v.Q)
	case graph.Delay:
		f["maxDelayTime"] = mustMarshal(v.MaxDelay)
		f["delayTime"] = encodeParam(v.DelayTime)
	case graph.Convolver:
		f["url"] = mustMarshal(v.URL)
		f["normalize"] = mustMarshal(v.Normalize)
	case graph.DynamicsCompressor:
		f["threshold"] = encodeParam(v.Threshold)
		f["knee"] = encodeParam(v.Knee)
		f["ratio"] = encodeParam(v.Ratio)
		f["attack"] = encodeParam(v.Attack)
		f["release"] = encodeParam(v.Release)
	case graph.Analyser:
		f["fftSize"] = mustMarshal(v.FFTSize)
		f["minDecibels"] = mustMarshal(v.MinDecibels)
		f["maxDecibels"] = mustMarshal(v.MaxDecibels)
		f["smoothingTimeConstant"] = mustMarshal(v.SmoothingTimeConstant)
	case graph.Panner:
		f["panningModel"] = mustMarshal(v.PanningModel)
		f["distanceModel"] = mustMarshal(v.DistanceModel)
		f["position"] = mustMarshal(v.Position)
		f["orientation"] = mustMarshal(v.Orientation)
	case graph.StereoPanner:
		f["pan"] = encodeParam(v.Pan)
	case graph.WaveShaper:
		if v.Curve != nil {
			f["curve"] = mustMarshal(v.Curve)
		}
		f["oversample"] = mustMarshal(v.Oversample)
	case graph.ChannelMerger:
		f["inputs"] = mustMarshal(v.Inputs)
	case graph.ChannelSplitter:
		f["outputs"] = mustMarshal(v.Outputs)
	case graph.MediaElementSource:
		f["element"] = mustMarshal(v.ElementID)
	case graph.MediaStreamDestination:
		// kind tag only
	case graph.MediaStreamSource:
		f["stream"] = mustMarshal(v.StreamID)
	default:
		return nil, fmt.Errorf("unknown props type %T", p)
	}
	return f, nil
}

func getString(f map[string]json.RawMessage, key, fallback string) string {
	raw, ok := f[key]
	if !ok {
		return fallback
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

func getFloat(f map[string]json.RawMessage, key string, fallback float64) float64 {
	raw, ok := f[key]
	if !ok {
		return fallback
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

func getInt(f map[string]json.RawMessage, key string, fallback int) int {
	raw, ok := f[key]
	if !ok {
		return fallback
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

func getBool(f map[string]json.RawMessage, key string) bool {
	raw, ok := f[key]
	if !ok {
		return false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v
}

func getVec3(f map[string]json.RawMessage, key string, dst *[3]float64) error {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
