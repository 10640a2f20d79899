// Package tone analyses rendered plucked-string blocks.
//
// Analyze reports level (RMS, peak), pitch and brightness of a block.
// Pitch comes from the normalized autocorrelation, computed in the
// frequency domain with algo-fft; the first key maximum within 90% of the
// strongest lag is taken as the period and refined by parabolic
// interpolation. Brightness is the spectral centroid of a windowed
// magnitude spectrum.
//
// A Karplus-Strong string whose loop filter averages the head with the
// samples ahead of it sounds slightly sharp of sampleRate/N: with the
// two-tap average the period settles near N-0.5 samples.
package tone
