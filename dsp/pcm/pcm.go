// Package pcm converts float sample blocks into fixed playback encodings.
//
// The synthesis core leaves its output un-normalized, so every conversion
// here applies a gain and clamps to [-1, 1] before encoding.
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Format is a mono sample encoding.
type Format int

const (
	FormatFloat32LE Format = iota
	FormatInt16LE
)

// ParseFormat parses "f32" or "s16" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "f32", "float32", "f32le":
		return FormatFloat32LE, nil
	case "s16", "int16", "s16le":
		return FormatInt16LE, nil
	default:
		return 0, fmt.Errorf("pcm: unknown format %q", s)
	}
}

// String returns the short format name.
func (f Format) String() string {
	switch f {
	case FormatFloat32LE:
		return "f32"
	case FormatInt16LE:
		return "s16"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BytesPerSample returns the encoded size of one sample.
func (f Format) BytesPerSample() int {
	if f == FormatInt16LE {
		return 2
	}
	return 4
}

// Encode writes src into dst in format f and returns the number of samples
// written.
func (f Format) Encode(dst []byte, src []float64, gain float64) int {
	if f == FormatInt16LE {
		return PutInt16LE(dst, src, gain)
	}
	return PutFloat32LE(dst, src, gain)
}

// Clamp limits x to [-1, 1]. NaN maps to 0.
func Clamp(x float64) float64 {
	switch {
	case x != x:
		return 0
	case x > 1:
		return 1
	case x < -1:
		return -1
	default:
		return x
	}
}

// Int16 converts one sample to signed 16-bit, truncating toward zero.
func Int16(x float64) int16 {
	return int16(Clamp(x) * math.MaxInt16)
}

// ToInt16 converts min(len(dst), len(src)) samples and returns the count.
func ToInt16(dst []int16, src []float64, gain float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Int16(src[i] * gain)
	}
	return n
}

// ToFloat32 converts min(len(dst), len(src)) samples and returns the count.
func ToFloat32(dst []float32, src []float64, gain float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float32(Clamp(src[i] * gain))
	}
	return n
}

// PutInt16LE encodes samples as little-endian int16 and returns the number
// of samples written.
func PutInt16LE(dst []byte, src []float64, gain float64) int {
	n := min(len(dst)/2, len(src))
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Int16(src[i]*gain)))
	}
	return n
}

// PutFloat32LE encodes samples as little-endian float32 and returns the
// number of samples written.
func PutFloat32LE(dst []byte, src []float64, gain float64) int {
	n := min(len(dst)/4, len(src))
	for i := 0; i < n; i++ {
		v := float32(Clamp(src[i] * gain))
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
	return n
}
