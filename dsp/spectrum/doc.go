// Package spectrum provides spectrum-domain helpers for analysing rendered
// blocks.
//
// The package does not implement an FFT. It operates on complex bins
// produced by an FFT backend, and offers the Goertzel recurrence for
// tracking a single partial without one.
package spectrum
