package tone

import (
	"math"

	"github.com/cwbudde/algo-pluck/dsp/window"
)

const (
	defaultMinFrequency = 40.0
	defaultMaxFrequency = 4000.0
	keyMaximumThreshold = 0.9
)

type config struct {
	minFrequency float64
	maxFrequency float64
	window       window.Type
}

func defaultConfig() config {
	return config{
		minFrequency: defaultMinFrequency,
		maxFrequency: defaultMaxFrequency,
		window:       window.TypeHann,
	}
}

// Option configures Analyze and PartialLevel.
type Option func(*config)

// WithMinFrequency sets the lowest pitch searched, in Hz.
// Non-positive values are ignored.
func WithMinFrequency(hz float64) Option {
	return func(c *config) {
		if hz > 0 && !math.IsInf(hz, 0) {
			c.minFrequency = hz
		}
	}
}

// WithMaxFrequency sets the highest pitch searched, in Hz.
// Non-positive values are ignored.
func WithMaxFrequency(hz float64) Option {
	return func(c *config) {
		if hz > 0 && !math.IsInf(hz, 0) {
			c.maxFrequency = hz
		}
	}
}

// WithWindow selects the window applied before the centroid spectrum and
// the partial level measurement.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}
