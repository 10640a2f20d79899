package main

import (
	"sync"

	"github.com/cwbudde/algo-pluck/dsp/bank"
	"github.com/cwbudde/algo-pluck/internal/keymap"
)

// voiceBank is the part of *bank.Bank the note router drives.
type voiceBank interface {
	Pluck(slot int, frequency float64) error
	Retire(slot int)
}

var _ voiceBank = (*bank.Bank)(nil)

// keyOwner marks a slot plucked from the computer keyboard.
const keyOwner = -2

// noteRouter serializes keyboard and MIDI input onto the bank. It records
// which input last plucked each slot, and a release only retires the slot
// while that input still owns it. MIDI notes map onto slots by pitch class.
type noteRouter struct {
	bank voiceBank

	mu    sync.Mutex
	owner [bank.NumSlots]int
}

func newNoteRouter(b voiceBank) *noteRouter {
	r := &noteRouter{bank: b}
	for i := range r.owner {
		r.owner[i] = -1
	}
	return r
}

func (r *noteRouter) keyDown(slot int, freq float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.bank.Pluck(slot, freq); err != nil {
		return err
	}
	r.owner[slot] = keyOwner
	return nil
}

// keyUp reports whether the slot was retired.
func (r *noteRouter) keyUp(slot int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.release(slot, keyOwner)
}

func (r *noteRouter) handle(on bool, note, _ uint8) {
	slot, freq := keymap.MIDINote(note)

	r.mu.Lock()
	defer r.mu.Unlock()

	if on {
		if err := r.bank.Pluck(slot, freq); err != nil {
			logger.Warn("midi pluck rejected", "note", note, "err", err)
			return
		}
		r.owner[slot] = int(note)
		return
	}

	r.release(slot, int(note))
}

func (r *noteRouter) release(slot, owner int) bool {
	if r.owner[slot] != owner {
		return false
	}
	r.bank.Retire(slot)
	r.owner[slot] = -1
	return true
}
