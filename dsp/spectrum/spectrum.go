package spectrum

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin. Scratch buffers
// are pooled, so in steady state only the output slice is allocated.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)
	return out
}

// Centroid returns the magnitude-weighted mean frequency of a one-sided
// spectrum (bins 0..Nyquist, len = fftSize/2+1) in Hz. A silent spectrum
// has centroid 0.
func Centroid(magnitude []float64, sampleRate float64) (float64, error) {
	if len(magnitude) < 2 {
		return 0, fmt.Errorf("spectrum: centroid needs >= 2 bins: %d", len(magnitude))
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	binHz := sampleRate / float64(2*(len(magnitude)-1))

	var weighted, total float64
	for i, m := range magnitude {
		weighted += float64(i) * binHz * m
		total += m
	}
	if total == 0 {
		return 0, nil
	}
	return weighted / total, nil
}
