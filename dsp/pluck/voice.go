package pluck

import (
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-pluck/dsp/delay"
	"github.com/cwbudde/algo-pluck/dsp/signal"
)

// Exciter fills a freshly allocated delay line with the initial pluck.
type Exciter interface {
	Excite(dst []float64)
}

// ExciterFunc adapts a plain function to Exciter.
type ExciterFunc func(dst []float64)

// Excite calls f(dst).
func (f ExciterFunc) Excite(dst []float64) { f(dst) }

// str is one plucked string. Once published it is only touched by the
// render path.
type str struct {
	line   *delay.Line
	params Params
}

func (s *str) next() float64 {
	return s.line.Recirculate(s.params.Decay * s.line.Mean())
}

// Voice is one plucked string slot.
type Voice struct {
	state   atomic.Pointer[str]
	exciter Exciter
}

// Option configures a Voice.
type Option func(*Voice)

// WithExciter sets the excitation source. The default is white noise seeded
// from the clock.
func WithExciter(e Exciter) Option {
	return func(v *Voice) {
		if e != nil {
			v.exciter = e
		}
	}
}

// NewVoice returns a quiescent voice.
func NewVoice(opts ...Option) *Voice {
	v := &Voice{}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if v.exciter == nil {
		v.exciter = signal.NewNoise(time.Now().UnixNano())
	}
	return v
}

// Trigger plucks the string. Any previous string is dropped without
// cross-fade and the read head restarts at 0. Arguments are clamped with
// ClampParams.
func (v *Voice) Trigger(frequency, decay float64, damping, sampleRate int) {
	v.TriggerParams(ClampParams(frequency, decay, damping, sampleRate))
}

// TriggerParams plucks the string with p.Clamped().
func (v *Voice) TriggerParams(p Params) {
	p = p.Clamped()

	buf := make([]float64, p.Period)
	v.exciter.Excite(buf)

	line, err := delay.Wrap(buf, p.Damping)
	if err != nil {
		// Period is clamped to >= 1, so Wrap cannot fail here.
		panic(err)
	}
	v.state.Store(&str{line: line, params: p})
}

// Retire silences the voice and releases its delay line. Retiring a
// quiescent voice is a no-op.
func (v *Voice) Retire() {
	v.state.Store(nil)
}

// Active reports whether the voice holds a string.
func (v *Voice) Active() bool {
	return v.state.Load() != nil
}

// Params returns the parameters of the current string.
func (v *Voice) Params() (Params, bool) {
	s := v.state.Load()
	if s == nil {
		return Params{}, false
	}
	return s.params, true
}

// Len returns the delay length N of the current string, or 0 when quiescent.
func (v *Voice) Len() int {
	s := v.state.Load()
	if s == nil {
		return 0
	}
	return s.line.Len()
}

// Position returns the read head of the current string, or 0 when quiescent.
func (v *Voice) Position() int {
	s := v.state.Load()
	if s == nil {
		return 0
	}
	return s.line.Pos()
}

// NextSample advances the string by one sample and returns the consumed
// sample. A quiescent voice returns 0.
func (v *Voice) NextSample() float64 {
	s := v.state.Load()
	if s == nil {
		return 0
	}
	return s.next()
}

// AddTo accumulates len(dst) samples of the voice into dst and reports
// whether the voice was active. A quiescent voice leaves dst untouched.
// The string is loaded once, so a concurrent Trigger or Retire takes effect
// at the next call.
func (v *Voice) AddTo(dst []float64) bool {
	s := v.state.Load()
	if s == nil {
		return false
	}
	for i := range dst {
		dst[i] += s.next()
	}
	return true
}
