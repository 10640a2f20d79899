// Package keymap maps input keys and MIDI notes to bank slots and pitches.
package keymap

import (
	"math"

	"github.com/cwbudde/algo-pluck/dsp/bank"
)

// Binding ties one computer key to a bank slot and its pitch.
type Binding struct {
	Key       rune
	Slot      int
	Frequency float64
	Name      string
}

var defaultBindings = [bank.NumSlots]Binding{
	{'q', 0, 246.94, "B3"},
	{'w', 1, 261.63, "C4"},
	{'e', 2, 293.66, "D4"},
	{'a', 3, 329.63, "E4"},
	{'s', 4, 349.23, "F4"},
	{'d', 5, 392.00, "G4"},
	{'f', 6, 440.00, "A4"},
	{'g', 7, 493.88, "B4"},
	{'h', 8, 523.25, "C5"},
	{'j', 9, 587.33, "D5"},
	{'k', 10, 659.25, "E5"},
	{'l', 11, 698.46, "F5"},
}

// Default returns the keyboard layout, one binding per slot in slot order.
func Default() []Binding {
	out := make([]Binding, len(defaultBindings))
	copy(out, defaultBindings[:])
	return out
}

// Lookup returns the binding for key. Upper-case letters match their
// lower-case binding.
func Lookup(key rune) (Binding, bool) {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}

	for _, b := range defaultBindings {
		if b.Key == key {
			return b, true
		}
	}

	return Binding{}, false
}

// NoteFrequency returns the equal-tempered frequency of a MIDI note with
// A4 (note 69) at 440 Hz.
func NoteFrequency(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// MIDINote maps a MIDI note onto the slot of its pitch class. Notes an
// octave apart share a slot, so the newer one replaces the older string.
func MIDINote(note uint8) (slot int, frequency float64) {
	return int(note) % bank.NumSlots, NoteFrequency(note)
}
