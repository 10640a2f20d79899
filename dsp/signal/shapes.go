package signal

// Sawtooth fills dst with one rising ramp from -1 towards 1.
func Sawtooth(dst []float64) {
	n := len(dst)
	if n == 1 {
		dst[0] = 0
		return
	}
	for i := range dst {
		dst[i] = -1 + 2*float64(i)/float64(n)
	}
}

// Triangle fills dst with one period of a triangle starting at -1, peaking
// at 1 halfway through.
func Triangle(dst []float64) {
	n := len(dst)
	if n == 1 {
		dst[0] = 0
		return
	}
	for i := range dst {
		phase := float64(i) / float64(n)
		if phase < 0.5 {
			dst[i] = -1 + 4*phase
		} else {
			dst[i] = 3 - 4*phase
		}
	}
}
