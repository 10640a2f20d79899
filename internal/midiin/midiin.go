// Package midiin forwards note events from a MIDI keyboard.
package midiin

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// ErrNoInput is returned by Open when no port matches.
var ErrNoInput = errors.New("midiin: no matching input")

// Virtual and system ports that are never picked.
var excludedPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// NoteFunc receives note on (on=true) and note off events. It runs on the
// driver's listener goroutine.
type NoteFunc func(on bool, note, velocity uint8)

// Input is an open MIDI input port.
type Input struct {
	mu     sync.Mutex
	drv    *rtmididrv.Driver
	in     drivers.In
	stop   func()
	name   string
	logger *slog.Logger
}

// Open connects to the first input whose name contains pattern
// (case-insensitive). An empty pattern selects the first usable port.
func Open(pattern string, onNote NoteFunc, logger *slog.Logger) (*Input, error) {
	if logger == nil {
		logger = slog.Default()
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiin: rtmididrv: %w", err)
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiin: list inputs: %w", err)
	}

	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	logger.Debug("midi inputs found", "devices", strings.Join(names, ", "))

	idx, ok := pickPort(names, pattern)
	if !ok {
		drv.Close()
		return nil, fmt.Errorf("%w: pattern %q", ErrNoInput, pattern)
	}

	in := ins[idx]
	if err := in.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiin: open %q: %w", names[idx], err)
	}

	inp := &Input{
		drv:    drv,
		in:     in,
		name:   names[idx],
		logger: logger,
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			logger.Debug("midi note on", "ch", ch, "key", key, "vel", vel)
			onNote(true, key, vel)
		case msg.GetNoteEnd(&ch, &key):
			logger.Debug("midi note off", "ch", ch, "key", key)
			onNote(false, key, 0)
		}
	}, midi.HandleError(func(listenErr error) {
		logger.Warn("midi listener error", "device", inp.name, "err", listenErr)
	}))
	if err != nil {
		_ = in.Close()
		drv.Close()
		return nil, fmt.Errorf("midiin: listen %q: %w", names[idx], err)
	}

	inp.stop = stop
	logger.Info("midi connected", "device", inp.name)

	return inp, nil
}

// Name returns the connected port name.
func (m *Input) Name() string {
	return m.name
}

// Close stops listening and releases the driver. It is safe to call twice.
func (m *Input) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		m.stop()
		m.stop = nil
	}

	if m.in != nil {
		_ = m.in.Close()
		m.in = nil
	}

	if m.drv != nil {
		m.drv.Close()
		m.drv = nil
		m.logger.Info("midi disconnected", "device", m.name)
	}
}

func pickPort(names []string, pattern string) (int, bool) {
	for i, name := range names {
		if isExcluded(name) {
			continue
		}

		if pattern == "" || containsCI(name, pattern) {
			return i, true
		}
	}

	return 0, false
}

func isExcluded(name string) bool {
	for _, pat := range excludedPatterns {
		if containsCI(name, pat) {
			return true
		}
	}

	return false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
