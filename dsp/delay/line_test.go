package delay

import (
	"math"
	"math/rand"
	"testing"
)

// --- construction and validation ---

func TestWrapValidation(t *testing.T) {
	if _, err := Wrap(nil, 1); err == nil {
		t.Fatal("expected error for empty buffer")
	}

	tests := []struct {
		window int
		want   int
	}{
		{-3, 1},
		{0, 1},
		{2, 2},
		{3, 3},
		{9, 3},
	}
	for _, tc := range tests {
		d, err := Wrap([]float64{1, 2, 3}, tc.window)
		if err != nil {
			t.Fatal(err)
		}
		if d.Len() != 3 || d.Pos() != 0 || d.Window() != tc.want {
			t.Fatalf("Wrap(window=%d): len=%d pos=%d window=%d", tc.window, d.Len(), d.Pos(), d.Window())
		}
	}
}

// --- recirculating access ---

func TestRecirculateReturnsConsumedSample(t *testing.T) {
	d, err := Wrap([]float64{1, 2, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Recirculate(-1); got != 1 {
		t.Fatalf("got %v want 1", got)
	}
	if d.Pos() != 1 {
		t.Fatalf("pos = %d, want 1", d.Pos())
	}

	d.Recirculate(-2)
	d.Recirculate(-3)
	if d.Pos() != 0 {
		t.Fatalf("pos = %d, want wrap to 0", d.Pos())
	}
	if got := d.Mean(); got != -1 {
		t.Fatalf("head after full cycle = %v, want -1", got)
	}
}

func TestMeanWrapsAtEnd(t *testing.T) {
	d, err := Wrap([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Mean(); got != 1.5 {
		t.Fatalf("Mean at 0 = %v, want 1.5", got)
	}

	d.Recirculate(10)
	d.Recirculate(2)
	d.Recirculate(3) // head at index 3

	if got := d.Mean(); got != (4+10)/2.0 {
		t.Fatalf("Mean at 3 = %v, want 7", got)
	}
}

// naiveMean is the window average computed from scratch.
func naiveMean(buf []float64, pos, window int) float64 {
	var sum float64
	for k := range window {
		sum += buf[(pos+k)%len(buf)]
	}
	return sum / float64(window)
}

func TestRunningMeanMatchesDirectSum(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		window int
	}{
		{name: "direct", size: 64, window: directWindow},
		{name: "running", size: 64, window: 20},
		{name: "full line", size: 64, window: 64},
		{name: "odd line", size: 97, window: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(4))
			buf := make([]float64, tt.size)
			for i := range buf {
				buf[i] = rng.Float64()*2 - 1
			}
			ref := append([]float64(nil), buf...)

			d, err := Wrap(buf, tt.window)
			if err != nil {
				t.Fatal(err)
			}

			pos := 0
			for step := 0; step < 20*tt.size+5; step++ {
				want := naiveMean(ref, pos, tt.window)
				got := d.Mean()
				if math.Abs(got-want) > 1e-12 {
					t.Fatalf("step %d: Mean = %v, want %v", step, got, want)
				}

				v := 0.999 * got
				ref[pos] = v
				d.Recirculate(v)
				pos = (pos + 1) % tt.size
			}
		})
	}
}

func TestRunningSumResyncsEachRevolution(t *testing.T) {
	buf := make([]float64, 32)
	for i := range buf {
		buf[i] = 0.1 * float64(i%7)
	}

	d, err := Wrap(buf, 16)
	if err != nil {
		t.Fatal(err)
	}

	for range 3 * len(buf) {
		d.Recirculate(0.5 * d.Mean())
	}

	if d.Pos() != 0 {
		t.Fatalf("pos = %d, want 0", d.Pos())
	}
	if d.sum != d.windowSum() {
		t.Fatalf("running sum %v drifted from window sum %v", d.sum, d.windowSum())
	}
}

// --- benchmarks ---

func benchmarkRecirculate(b *testing.B, size, window int) {
	d, _ := Wrap(make([]float64, size), window)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Recirculate(0.5 * d.Mean())
	}
}

func BenchmarkRecirculateTwoTap(b *testing.B) { benchmarkRecirculate(b, 100, 2) }

func BenchmarkRecirculateFullWindow(b *testing.B) { benchmarkRecirculate(b, 44100, 44100) }
