package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pluck/dsp/bank"
	"github.com/cwbudde/algo-pluck/dsp/core"
	"github.com/cwbudde/algo-pluck/dsp/signal"
	"github.com/cwbudde/algo-pluck/dsp/window"
	"github.com/cwbudde/algo-pluck/internal/testutil"
)

func TestAnalyzeSine(t *testing.T) {
	sine := testutil.DeterministicSine(441, 44100, 0.5, 4410)

	res, err := Analyze(sine, 44100)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.Period-100) > 0.2 {
		t.Fatalf("Period = %v, want ~100", res.Period)
	}
	if math.Abs(res.Fundamental-441) > 1 {
		t.Fatalf("Fundamental = %v, want ~441", res.Fundamental)
	}
	if res.Clarity < 0.95 {
		t.Fatalf("Clarity = %v, want > 0.95", res.Clarity)
	}
	if math.Abs(res.RMS-0.5/math.Sqrt2) > 1e-3 {
		t.Fatalf("RMS = %v, want %v", res.RMS, 0.5/math.Sqrt2)
	}
	if math.Abs(res.Peak-0.5) > 1e-3 {
		t.Fatalf("Peak = %v, want 0.5", res.Peak)
	}
	if res.Centroid < 400 || res.Centroid > 500 {
		t.Fatalf("Centroid = %v, want near 441", res.Centroid)
	}
}

func TestAnalyzePluckedString(t *testing.T) {
	b := bank.New(
		bank.WithProcessorOptions(core.WithSampleRate(44100)),
		bank.WithExciter(signal.NewNoise(7)),
	)
	if err := b.Pluck(0, 440); err != nil {
		t.Fatal(err)
	}

	block := b.Render(4410)

	res, err := Analyze(block, b.SampleRate())
	if err != nil {
		t.Fatal(err)
	}

	// N = 100 with the two-tap loop filter settles near 99.5 samples.
	if math.Abs(res.Period-99.5) > 1 {
		t.Fatalf("Period = %v, want within 1 sample of 99.5", res.Period)
	}
	if res.Fundamental < 436 || res.Fundamental > 448 {
		t.Fatalf("Fundamental = %v, want ~443", res.Fundamental)
	}
	if res.Clarity < 0.5 {
		t.Fatalf("Clarity = %v, want > 0.5", res.Clarity)
	}
	if res.Peak > 1 {
		t.Fatalf("Peak = %v exceeds excitation range", res.Peak)
	}
}

func TestAnalyzeBrightnessFallsAsStringRings(t *testing.T) {
	b := bank.New(bank.WithExciter(signal.NewNoise(3)))
	if err := b.Pluck(5, 392); err != nil {
		t.Fatal(err)
	}

	early, err := Analyze(b.Render(2048), b.SampleRate())
	if err != nil {
		t.Fatal(err)
	}

	b.Render(44100)

	late, err := Analyze(b.Render(2048), b.SampleRate())
	if err != nil {
		t.Fatal(err)
	}

	if late.Centroid >= early.Centroid {
		t.Fatalf("centroid did not fall: early=%v late=%v", early.Centroid, late.Centroid)
	}
	if late.RMS >= early.RMS {
		t.Fatalf("RMS did not fall: early=%v late=%v", early.RMS, late.RMS)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	res, err := Analyze(make([]float64, 1024), 48000)
	if err != nil {
		t.Fatal(err)
	}
	if res != (Result{}) {
		t.Fatalf("silence analysis = %+v, want zero Result", res)
	}
}

func TestAnalyzeOutOfRangePitch(t *testing.T) {
	sine := testutil.DeterministicSine(441, 44100, 1, 4410)

	res, err := Analyze(sine, 44100, WithMinFrequency(1000), WithMaxFrequency(3000))
	if err != nil {
		t.Fatal(err)
	}
	if res.Period != 0 || res.Fundamental != 0 {
		t.Fatalf("expected no pitch in 1-3 kHz, got period=%v f0=%v", res.Period, res.Fundamental)
	}
}

func TestAnalyzeWindowOption(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 48000, 1, 4800)

	hann, err := Analyze(sine, 48000)
	if err != nil {
		t.Fatal(err)
	}
	rect, err := Analyze(sine, 48000, WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatal(err)
	}

	// The rectangular window leaks further into high bins.
	if rect.Centroid <= hann.Centroid {
		t.Fatalf("rectangular centroid %v should exceed Hann centroid %v", rect.Centroid, hann.Centroid)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	if _, err := Analyze([]float64{1}, 44100); !errors.Is(err, errShortSignal) {
		t.Fatalf("short signal: got %v", err)
	}
	if _, err := Analyze(make([]float64, 8), 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := Analyze(make([]float64, 8), 44100, WithMinFrequency(500), WithMaxFrequency(100)); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestPartialLevel(t *testing.T) {
	sine := testutil.DeterministicSine(441, 44100, 0.25, 4400)

	level, err := PartialLevel(sine, 441, 44100)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(level-0.25) > 1e-6 {
		t.Fatalf("PartialLevel = %v, want 0.25", level)
	}

	if _, err := PartialLevel(sine, 30000, 44100); err == nil {
		t.Fatal("expected error above Nyquist")
	}
	if _, err := PartialLevel(nil, 441, 44100); err == nil {
		t.Fatal("expected error for empty signal")
	}
}

func TestPartialLevelWindowing(t *testing.T) {
	// 43.21 cycles: the block does not hold a whole number of periods.
	sine := testutil.DeterministicSine(441, 44100, 0.25, 4321)

	hann, err := PartialLevel(sine, 441, 44100)
	if err != nil {
		t.Fatal(err)
	}
	rect, err := PartialLevel(sine, 441, 44100, WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(hann-0.25) > 1e-6 {
		t.Fatalf("Hann PartialLevel = %v, want 0.25", hann)
	}
	if math.Abs(rect-0.25) < 1e-4 {
		t.Fatalf("rectangular PartialLevel = %v, expected leakage from the image", rect)
	}

	// A single sample of a periodic Hann window is zero.
	if got, err := PartialLevel([]float64{1}, 441, 44100); err != nil || got != 0 {
		t.Fatalf("PartialLevel(1 sample) = %v, %v; want 0, nil", got, err)
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{1024, 1024},
		{1025, 2048},
	}
	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Fatalf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkAnalyze4096(b *testing.B) {
	sine := testutil.DeterministicSine(441, 44100, 1, 4096)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Analyze(sine, 44100)
	}
}
