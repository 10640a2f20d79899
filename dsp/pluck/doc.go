// Package pluck implements a plucked-string voice using the Karplus-Strong
// delay-line model.
//
// A Voice is quiescent until triggered. Trigger fills a delay line of one
// period with an excitation and every NextSample call consumes the head
// sample, replacing it with the decayed moving average of the samples from
// the head onwards:
//
//	out = line[i]
//	line[i] = decay * mean(line[i], line[i+1], ..., line[i+damping-1])
//	i = (i + 1) mod N
//
// N = round(sampleRate/frequency) sets the pitch, decay sets how many
// periods the string rings and damping (the averaging width) sets how fast
// upper harmonics die out. A triggered voice never silences itself; it runs
// until Retire.
//
// Concurrency: Trigger and Retire form the control path and may run on a
// different goroutine than NextSample and AddTo (the render path). Each
// transition builds the complete string first and publishes it with one
// atomic store, so the render path sees either the old string or the new
// one. Control calls must be serialized by the caller; render calls must
// come from a single goroutine.
package pluck
