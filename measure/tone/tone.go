package tone

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-pluck/dsp/spectrum"
	"github.com/cwbudde/algo-pluck/dsp/window"
)

var errShortSignal = errors.New("tone: signal needs at least 2 samples")

// Result holds the analysis of one block.
type Result struct {
	RMS  float64
	Peak float64

	// Period is the detected pitch period in samples, 0 when no periodic
	// component was found within the search range.
	Period      float64
	Fundamental float64
	// Clarity is the normalized autocorrelation at the detected period.
	Clarity float64

	// Centroid is the spectral centroid in Hz.
	Centroid float64
}

// Analyze measures level, pitch and spectral centroid of signal.
func Analyze(signal []float64, sampleRate float64, opts ...Option) (Result, error) {
	if len(signal) < 2 {
		return Result{}, errShortSignal
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("tone: sample rate must be > 0: %v", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.minFrequency >= cfg.maxFrequency {
		return Result{}, fmt.Errorf("tone: min frequency %v must be below max frequency %v",
			cfg.minFrequency, cfg.maxFrequency)
	}

	var res Result

	var energy float64
	for _, x := range signal {
		energy += x * x
		res.Peak = max(res.Peak, math.Abs(x))
	}

	res.RMS = math.Sqrt(energy / float64(len(signal)))
	if energy == 0 {
		return res, nil
	}

	acf, err := autocorrelation(signal)
	if err != nil {
		return Result{}, err
	}

	minLag := max(1, int(math.Floor(sampleRate/cfg.maxFrequency)))
	maxLag := min(len(signal)/2, int(math.Ceil(sampleRate/cfg.minFrequency)))

	if lag, ok := pickPeriod(acf, minLag, maxLag); ok {
		res.Period = interpolatePeak(acf, lag)
		res.Fundamental = sampleRate / res.Period
		res.Clarity = acf[lag]
	}

	res.Centroid, err = centroid(signal, sampleRate, cfg.window)
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

// PartialLevel returns the amplitude of the component at frequency, as
// measured by a Goertzel filter over the whole signal. The signal is
// weighted by the periodic form of the configured window (Hann unless
// WithWindow says otherwise) and the result is corrected by the window's
// coherent gain. Only WithWindow affects the measurement.
func PartialLevel(signal []float64, frequency, sampleRate float64, opts ...Option) (float64, error) {
	if len(signal) == 0 {
		return 0, errShortSignal
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g, err := spectrum.NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}

	coeffs := window.Generate(cfg.window, len(signal), window.WithPeriodic())

	windowed, err := window.ApplyCoefficients(signal, coeffs)
	if err != nil {
		return 0, fmt.Errorf("tone: %w", err)
	}

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return 0, fmt.Errorf("tone: %w", err)
	}
	if gain == 0 {
		return 0, nil
	}

	g.ProcessBlock(windowed)

	return g.Amplitude() / gain, nil
}

// autocorrelation returns the unbiased autocorrelation of signal for lags
// 0..len(signal)-1, normalized so that lag 0 equals 1.
func autocorrelation(signal []float64) ([]float64, error) {
	n := len(signal)
	size := nextPowerOf2(2 * n)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("tone: fft plan: %w", err)
	}

	in := make([]complex128, size)
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	freq := make([]complex128, size)
	if err := plan.Forward(freq, in); err != nil {
		return nil, fmt.Errorf("tone: forward fft: %w", err)
	}

	for i, c := range freq {
		freq[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}

	if err := plan.Inverse(in, freq); err != nil {
		return nil, fmt.Errorf("tone: inverse fft: %w", err)
	}

	zero := real(in[0])
	out := make([]float64, n)
	for k := range out {
		out[k] = real(in[k]) / zero * float64(n) / float64(n-k)
	}

	return out, nil
}

// pickPeriod skips the zero-lag lobe, then returns the first local maximum
// in [minLag, maxLag] that reaches keyMaximumThreshold of the largest one.
func pickPeriod(acf []float64, minLag, maxLag int) (int, bool) {
	maxLag = min(maxLag, len(acf)-2)
	if minLag < 1 || minLag >= maxLag {
		return 0, false
	}

	k := minLag
	for k < maxLag && acf[k+1] <= acf[k] {
		k++
	}

	var peaks []int
	best := 0.0
	for ; k <= maxLag; k++ {
		if acf[k] > 0 && acf[k] >= acf[k-1] && acf[k] > acf[k+1] {
			peaks = append(peaks, k)
			best = max(best, acf[k])
		}
	}

	for _, p := range peaks {
		if acf[p] >= keyMaximumThreshold*best {
			return p, true
		}
	}

	return 0, false
}

func interpolatePeak(acf []float64, k int) float64 {
	if k <= 0 || k >= len(acf)-1 {
		return float64(k)
	}

	a, b, c := acf[k-1], acf[k], acf[k+1]

	den := a - 2*b + c
	if den == 0 {
		return float64(k)
	}

	return float64(k) + 0.5*(a-c)/den
}

func centroid(signal []float64, sampleRate float64, wt window.Type) (float64, error) {
	size := nextPowerOf2(len(signal))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return 0, fmt.Errorf("tone: fft plan: %w", err)
	}

	frame := make([]float64, len(signal))
	copy(frame, signal)
	window.Apply(wt, frame, window.WithPeriodic())

	in := make([]complex128, size)
	for i, x := range frame {
		in[i] = complex(x, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("tone: forward fft: %w", err)
	}

	return spectrum.Centroid(spectrum.Magnitude(out[:size/2+1]), sampleRate)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
