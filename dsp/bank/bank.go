// Package bank provides a fixed bank of plucked-string voices and the mixer
// that sums them into output blocks.
//
// Trigger, Retire and the other control methods may be called from an input
// goroutine while Render runs on the audio goroutine. Control calls are
// serialized by a mutex that Render never takes; Render only performs
// atomic loads and never allocates in RenderInto.
package bank

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-pluck/dsp/core"
	"github.com/cwbudde/algo-pluck/dsp/pluck"
	"github.com/cwbudde/algo-pluck/dsp/signal"
)

// NumSlots is the number of voices in a bank, one per playable pitch.
const NumSlots = 12

const (
	defaultDecay   = 0.995
	defaultDamping = 2
)

// ErrBudgetExhausted is returned by Trigger when the new string would push
// the total delay memory of the bank past its sample budget.
var ErrBudgetExhausted = errors.New("bank: sample budget exhausted")

// Bank owns NumSlots voices with stable slot identity.
type Bank struct {
	cfg     core.ProcessorConfig
	decay   float64
	damping int
	budget  int
	exciter pluck.Exciter

	mu     sync.Mutex // control path only
	used   int
	voices [NumSlots]*pluck.Voice
}

// Option configures a Bank.
type Option func(*Bank)

// WithProcessorOptions sets sample rate and block size.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(b *Bank) {
		b.cfg = core.ApplyProcessorOptions(opts...)
	}
}

// WithDecay sets the decay factor used by Pluck.
func WithDecay(decay float64) Option {
	return func(b *Bank) {
		if decay > 0 && decay <= 1 {
			b.decay = decay
		}
	}
}

// WithDamping sets the averaging width used by Pluck.
func WithDamping(damping int) Option {
	return func(b *Bank) {
		if damping >= 1 {
			b.damping = damping
		}
	}
}

// WithSampleBudget limits the total delay-line length, in samples, held by
// all voices at once. Zero or negative means unlimited.
func WithSampleBudget(samples int) Option {
	return func(b *Bank) {
		b.budget = max(samples, 0)
	}
}

// WithExciter sets the excitation source shared by all voices. The source is
// only used from the serialized control path. The default is white noise
// seeded from the clock.
func WithExciter(e pluck.Exciter) Option {
	return func(b *Bank) {
		if e != nil {
			b.exciter = e
		}
	}
}

// New returns a bank with all voices quiescent.
func New(opts ...Option) *Bank {
	b := &Bank{
		cfg:     core.DefaultProcessorConfig(),
		decay:   defaultDecay,
		damping: defaultDamping,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.exciter == nil {
		b.exciter = signal.NewNoise(time.Now().UnixNano())
	}
	for i := range b.voices {
		b.voices[i] = pluck.NewVoice(pluck.WithExciter(b.exciter))
	}
	return b
}

// SampleRate returns the configured sample rate in Hz.
func (b *Bank) SampleRate() float64 {
	return b.cfg.SampleRate
}

// BlockSize returns the configured render block size.
func (b *Bank) BlockSize() int {
	return b.cfg.BlockSize
}

// Budget returns the sample budget, 0 when unlimited.
func (b *Bank) Budget() int {
	return b.budget
}

// Used returns the total delay length currently held by active voices.
func (b *Bank) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// VoiceState is a read-only view of one slot.
type VoiceState struct {
	Active   bool
	Params   pluck.Params
	Len      int
	Position int
}

// State returns the current state of slot. Position keeps advancing while
// the bank renders, so it is exact only between Render calls.
func (b *Bank) State(slot int) VoiceState {
	v := b.voices[checkSlot(slot)]

	p, ok := v.Params()
	if !ok {
		return VoiceState{}
	}

	return VoiceState{
		Active:   true,
		Params:   p,
		Len:      p.Period,
		Position: v.Position(),
	}
}

// Trigger plucks the voice in slot. Parameters are clamped and never cause
// an error. The only failure is ErrBudgetExhausted, returned when the string
// would exceed the sample budget or when frequency is so low that its period
// is longer than pluck.MaxPeriod; the voice then keeps its previous state.
func (b *Bank) Trigger(slot int, frequency, decay float64, damping, sampleRate int) error {
	checkSlot(slot)
	if !pluck.PeriodFits(frequency, sampleRate) {
		return fmt.Errorf("%w: slot %d: %v Hz at %d Hz needs more than %d samples",
			ErrBudgetExhausted, slot, frequency, sampleRate, pluck.MaxPeriod)
	}
	p := pluck.ClampParams(frequency, decay, damping, sampleRate)

	b.mu.Lock()
	defer b.mu.Unlock()

	v := b.voices[slot]
	used := b.used - v.Len() + p.Period
	if b.budget > 0 && used > b.budget {
		return fmt.Errorf("%w: slot %d needs %d samples, %d of %d in use",
			ErrBudgetExhausted, slot, p.Period, b.used, b.budget)
	}

	v.TriggerParams(p)
	b.used = used
	return nil
}

// Pluck triggers slot at frequency with the bank's decay, damping and
// sample rate.
func (b *Bank) Pluck(slot int, frequency float64) error {
	return b.Trigger(slot, frequency, b.decay, b.damping, int(b.cfg.SampleRate+0.5))
}

// Retire silences slot and releases its delay line. It is idempotent.
func (b *Bank) Retire(slot int) {
	checkSlot(slot)

	b.mu.Lock()
	defer b.mu.Unlock()

	v := b.voices[slot]
	b.used -= v.Len()
	v.Retire()
}

// RetireAll silences every voice.
func (b *Bank) RetireAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, v := range b.voices {
		v.Retire()
	}
	b.used = 0
}

// Active reports whether slot holds a sounding string.
func (b *Bank) Active(slot int) bool {
	return b.voices[checkSlot(slot)].Active()
}

// ActiveCount returns the number of active voices.
func (b *Bank) ActiveCount() int {
	n := 0
	for _, v := range b.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// Render returns a new block of n samples owned by the caller. n <= 0
// yields an empty block.
func (b *Bank) Render(n int) []float64 {
	out := make([]float64, max(n, 0))
	b.RenderInto(out)
	return out
}

// RenderInto overwrites dst with the sum of all active voices. No
// normalization or clipping is applied. It does not allocate, lock or block.
func (b *Bank) RenderInto(dst []float64) {
	core.Zero(dst)
	for _, v := range b.voices {
		v.AddTo(dst)
	}
}

func checkSlot(slot int) int {
	if slot < 0 || slot >= NumSlots {
		panic(fmt.Sprintf("bank: slot %d out of range [0, %d)", slot, NumSlots))
	}
	return slot
}
