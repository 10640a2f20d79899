// Package output connects a voice bank to an audio device.
//
// Stream is the io.Reader the device pulls from: each Read renders one
// block from the bank, converts it to the device encoding and offers it
// to a Scope for drawing. Player owns the oto context and player.
package output
