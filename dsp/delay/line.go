// Package delay provides the recirculating delay line used by waveguide
// strings.
//
// A Line holds one period of a string. Its head sample is consumed and
// replaced in place by Recirculate, and Mean reports the average of a
// fixed-width window starting at the head. Windows wider than
// directWindow samples are tracked with a running sum, so each sample costs
// O(1) regardless of the window width.
package delay

import "fmt"

// directWindow is the widest window that Mean sums directly. Wider windows
// use the running sum, which is resynchronized once per revolution.
const directWindow = 8

// Line is a circular recirculating delay line. It is not safe for
// concurrent use.
type Line struct {
	buffer []float64
	pos    int
	window int
	sum    float64
}

// Wrap returns a delay line that takes ownership of buf, averaging over
// window samples from the head. window is clamped to [1, len(buf)]. The head
// starts at buf[0]; the caller must not modify buf afterwards.
func Wrap(buf []float64, window int) (*Line, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", len(buf))
	}

	d := &Line{
		buffer: buf,
		window: min(max(window, 1), len(buf)),
	}
	d.sum = d.windowSum()

	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Pos returns the head index in [0, Len()).
func (d *Line) Pos() int {
	return d.pos
}

// Window returns the averaging width in samples.
func (d *Line) Window() int {
	return d.window
}

// Mean returns the average of the Window() samples starting at the head,
// wrapping at Len().
func (d *Line) Mean() float64 {
	if d.window <= directWindow {
		return d.windowSum() / float64(d.window)
	}
	return d.sum / float64(d.window)
}

// Recirculate replaces the head sample with v, advances the head, and
// returns the sample that was replaced.
func (d *Line) Recirculate(v float64) float64 {
	out := d.buffer[d.pos]
	d.buffer[d.pos] = v

	if d.window > directWindow {
		// The sample entering the window sits window positions past the old
		// head. With window == Len() that is the head itself, now holding v.
		j := d.pos + d.window
		if j >= len(d.buffer) {
			j -= len(d.buffer)
		}
		d.sum += d.buffer[j] - out
	}

	d.pos++
	if d.pos == len(d.buffer) {
		d.pos = 0
		if d.window > directWindow {
			d.sum = d.windowSum()
		}
	}

	return out
}

func (d *Line) windowSum() float64 {
	size := len(d.buffer)

	var sum float64
	i := d.pos
	for range d.window {
		sum += d.buffer[i]
		i++
		if i == size {
			i = 0
		}
	}
	return sum
}
