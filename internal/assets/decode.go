package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hajimehoshi/go-mp3"

	"github.com/wavekit/wavegraph/internal/audio"
)

// DecodeBuffer sniffs the container format from the leading bytes and
// decodes into a planar float32 buffer. MP3 and RIFF/WAVE PCM are
// supported.
func DecodeBuffer(data []byte) (*audio.Buffer, error) {
	switch {
	case isMP3(data):
		return decodeMP3(data)
	case isWAV(data):
		return decodeWAV(data)
	}
	return nil, fmt.Errorf("unrecognized audio format")
}

func isMP3(data []byte) bool {
	if len(data) < 3 {
		return false
	}
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	// Frame sync: eleven set bits.
	return data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

// decodeMP3 produces interleaved 16-bit stereo PCM via go-mp3, then
// deinterleaves into planar channels.
func decodeMP3(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}

	// go-mp3 always emits two channels of little-endian int16.
	frames := len(pcm) / 4
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*4:]))) / 32768
		right[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))) / 32768
	}
	return &audio.Buffer{
		SampleRate: dec.SampleRate(),
		Data:       [][]float32{left, right},
	}, nil
}

// decodeWAV parses the RIFF chunk structure directly: integer PCM (format
// 1, 8/16/24/32-bit) and float PCM (format 3, 32-bit). No library in use
// here covers WAV, and the subset the cache needs is small.
func decodeWAV(data []byte) (*audio.Buffer, error) {
	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		pcm        []byte
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("wav decode: truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav decode: short fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size + size%2
	}

	if !haveFmt || pcm == nil {
		return nil, fmt.Errorf("wav decode: missing fmt or data chunk")
	}
	if channels < 1 {
		return nil, fmt.Errorf("wav decode: invalid channel count %d", channels)
	}

	bytesPer := bitDepth / 8
	if bytesPer == 0 {
		return nil, fmt.Errorf("wav decode: invalid bit depth %d", bitDepth)
	}
	frames := len(pcm) / (bytesPer * channels)

	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * bytesPer
			s, err := sampleAt(pcm, off, format, bitDepth)
			if err != nil {
				return nil, err
			}
			out[ch][i] = s
		}
	}

	return &audio.Buffer{SampleRate: sampleRate, Data: out}, nil
}

func sampleAt(pcm []byte, off int, format uint16, bitDepth int) (float32, error) {
	switch {
	case format == 1 && bitDepth == 8:
		// Unsigned, midpoint 128.
		return (float32(pcm[off]) - 128) / 128, nil
	case format == 1 && bitDepth == 16:
		return float32(int16(binary.LittleEndian.Uint16(pcm[off:]))) / 32768, nil
	case format == 1 && bitDepth == 24:
		v := int32(pcm[off]) | int32(pcm[off+1])<<8 | int32(pcm[off+2])<<16
		if v&0x800000 != 0 {
			v -= 0x1000000
		}
		return float32(v) / 8388608, nil
	case format == 1 && bitDepth == 32:
		return float32(int32(binary.LittleEndian.Uint32(pcm[off:]))) / 2147483648, nil
	case format == 3 && bitDepth == 32:
		return math.Float32frombits(binary.LittleEndian.Uint32(pcm[off:])), nil
	}
	return 0, fmt.Errorf("wav decode: unsupported format %d / %d-bit", format, bitDepth)
}
