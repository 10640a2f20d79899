package signal

import "math/rand"

// Noise is a seeded source of uniformly distributed white noise in
// [-amplitude, amplitude]. It is not safe for concurrent use.
type Noise struct {
	seed      int64
	amplitude float64
	rng       *rand.Rand
}

// NoiseOption configures a Noise source.
type NoiseOption func(*Noise)

// WithAmplitude sets the peak amplitude. Negative values are ignored.
func WithAmplitude(amplitude float64) NoiseOption {
	return func(n *Noise) {
		if amplitude >= 0 {
			n.amplitude = amplitude
		}
	}
}

// NewNoise returns a unit-amplitude noise source with a deterministic seed.
func NewNoise(seed int64, opts ...NoiseOption) *Noise {
	n := &Noise{
		seed:      seed,
		amplitude: 1,
		rng:       rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Seed returns the seed the source was created or last reset with.
func (n *Noise) Seed() int64 {
	return n.seed
}

// Amplitude returns the peak amplitude.
func (n *Noise) Amplitude() float64 {
	return n.amplitude
}

// Reset restarts the sequence from seed.
func (n *Noise) Reset(seed int64) {
	n.seed = seed
	n.rng.Seed(seed)
}

// Excite fills dst with the next len(dst) noise values.
func (n *Noise) Excite(dst []float64) {
	for i := range dst {
		dst[i] = (n.rng.Float64()*2 - 1) * n.amplitude
	}
}
