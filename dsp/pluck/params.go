package pluck

import (
	"math"

	"github.com/cwbudde/algo-pluck/dsp/core"
)

const (
	// MaxSampleRate is the highest accepted sample rate in Hz.
	MaxSampleRate = 768000
	// MaxPeriod is the longest delay line a voice allocates, in samples.
	MaxPeriod = 1 << 16
	// MinDecay is the smallest feedback factor a voice accepts.
	MinDecay = 1e-6
)

// Params holds the clamped parameters of one pluck.
type Params struct {
	Period  int
	Decay   float64
	Damping int
}

// PeriodLength returns the delay length for frequency at sampleRate,
// round(sampleRate/frequency) clamped to [1, MaxPeriod]. A frequency that is
// NaN or not positive yields MaxPeriod. Callers that must not retune a
// valid low frequency check PeriodFits first.
func PeriodLength(frequency float64, sampleRate int) int {
	sr := core.ClampInt(sampleRate, 1, MaxSampleRate)
	if math.IsNaN(frequency) || frequency <= 0 {
		return MaxPeriod
	}

	n := math.Round(float64(sr) / frequency)
	if n < 1 {
		return 1
	}
	if n > MaxPeriod {
		return MaxPeriod
	}
	return int(n)
}

// PeriodFits reports whether frequency maps onto a delay line of
// round(sampleRate/frequency) samples without exceeding MaxPeriod. A
// frequency that is NaN or not positive has no exact period and fits by
// definition, selecting MaxPeriod.
func PeriodFits(frequency float64, sampleRate int) bool {
	if math.IsNaN(frequency) || frequency <= 0 {
		return true
	}

	sr := core.ClampInt(sampleRate, 1, MaxSampleRate)
	return math.Round(float64(sr)/frequency) <= MaxPeriod
}

// ClampParams maps arbitrary trigger arguments onto valid string parameters.
// It never fails.
func ClampParams(frequency, decay float64, damping, sampleRate int) Params {
	p := Params{
		Period:  PeriodLength(frequency, sampleRate),
		Decay:   decay,
		Damping: damping,
	}
	return p.Clamped()
}

// Clamped returns p with Period in [1, MaxPeriod], Decay in [MinDecay, 1]
// (NaN becomes 1) and Damping in [1, Period]. A window wider than the line
// would wrap and count samples more than once; it is limited to the whole
// line instead.
func (p Params) Clamped() Params {
	p.Period = core.ClampInt(p.Period, 1, MaxPeriod)
	if math.IsNaN(p.Decay) {
		p.Decay = 1
	} else {
		p.Decay = core.Clamp(p.Decay, MinDecay, 1)
	}
	p.Damping = core.ClampInt(p.Damping, 1, p.Period)
	return p
}
