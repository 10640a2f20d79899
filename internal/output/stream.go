package output

import (
	"github.com/cwbudde/algo-pluck/dsp/pcm"
)

// Renderer fills dst with the next len(dst) mixed samples.
// *bank.Bank implements it.
type Renderer interface {
	RenderInto(dst []float64)
}

// Stream pulls mixed samples from a Renderer and encodes them for a
// mono device. Read does not allocate once the stream is built.
type Stream struct {
	src     Renderer
	format  pcm.Format
	gain    float64
	scope   *Scope
	scratch []float64
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithFormat sets the device encoding. The default is float32 LE.
func WithFormat(f pcm.Format) StreamOption {
	return func(s *Stream) {
		s.format = f
	}
}

// WithGain scales samples before they are clamped and encoded.
func WithGain(gain float64) StreamOption {
	return func(s *Stream) {
		if gain >= 0 {
			s.gain = gain
		}
	}
}

// WithScope publishes every rendered block to sc.
func WithScope(sc *Scope) StreamOption {
	return func(s *Stream) {
		s.scope = sc
	}
}

// WithBlockSize sets the largest block rendered per chunk.
func WithBlockSize(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.scratch = make([]float64, n)
		}
	}
}

// NewStream creates a stream reading from src.
func NewStream(src Renderer, opts ...StreamOption) *Stream {
	s := &Stream{
		src:  src,
		gain: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.scratch == nil {
		s.scratch = make([]float64, 1024)
	}

	return s
}

// Format returns the device encoding.
func (s *Stream) Format() pcm.Format {
	return s.format
}

// Read renders len(p)/frame samples and returns the number of bytes
// written, always a whole number of frames.
func (s *Stream) Read(p []byte) (int, error) {
	bps := s.format.BytesPerSample()
	frames := len(p) / bps

	written := 0
	for written < frames {
		block := s.scratch[:min(len(s.scratch), frames-written)]
		s.src.RenderInto(block)

		s.format.Encode(p[written*bps:], block, s.gain)
		if s.scope != nil {
			s.scope.Publish(block)
		}

		written += len(block)
	}

	return frames * bps, nil
}

// Fill renders len(out) samples as float32 for callback-driven devices.
func (s *Stream) Fill(out []float32) {
	for written := 0; written < len(out); {
		block := s.scratch[:min(len(s.scratch), len(out)-written)]
		s.src.RenderInto(block)

		pcm.ToFloat32(out[written:], block, s.gain)
		if s.scope != nil {
			s.scope.Publish(block)
		}

		written += len(block)
	}
}
