package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pluck/internal/testutil"
)

func TestGoertzelAmplitudeOfBinCentredSine(t *testing.T) {
	g, err := NewGoertzel(441, 44100)
	if err != nil {
		t.Fatal(err)
	}

	g.ProcessBlock(testutil.DeterministicSine(441, 44100, 0.5, 4400))
	if got := g.Amplitude(); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("Amplitude = %v, want 0.5", got)
	}
}

func TestGoertzelBlocksAccumulate(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 48000, 1, 960)

	whole, _ := NewGoertzel(1000, 48000)
	whole.ProcessBlock(sine)

	split, _ := NewGoertzel(1000, 48000)
	split.ProcessBlock(sine[:300])
	split.ProcessBlock(sine[300:])

	if math.Abs(whole.Power()-split.Power()) > 1e-9 {
		t.Fatalf("split power %v != whole power %v", split.Power(), whole.Power())
	}
}

func TestGoertzelRejectsOffBinFrequency(t *testing.T) {
	g, _ := NewGoertzel(2205, 44100)
	g.ProcessBlock(testutil.DeterministicSine(441, 44100, 1, 4400))
	if got := g.Amplitude(); got > 1e-6 {
		t.Fatalf("Amplitude at 2205 Hz = %v, want ~0", got)
	}
}

func TestGoertzelReset(t *testing.T) {
	g, _ := NewGoertzel(441, 44100)
	g.ProcessBlock(testutil.DeterministicSine(441, 44100, 1, 100))
	g.Reset()
	if g.Power() != 0 || g.Amplitude() != 0 {
		t.Fatalf("after Reset: power=%v amplitude=%v", g.Power(), g.Amplitude())
	}
}

func TestNewGoertzelValidation(t *testing.T) {
	tests := []struct {
		freq, rate float64
	}{
		{440, 0},
		{440, math.Inf(1)},
		{-1, 44100},
		{30000, 44100},
		{math.NaN(), 44100},
	}
	for _, tt := range tests {
		if _, err := NewGoertzel(tt.freq, tt.rate); err == nil {
			t.Fatalf("NewGoertzel(%v, %v): expected error", tt.freq, tt.rate)
		}
	}
}
