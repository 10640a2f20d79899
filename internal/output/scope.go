package output

import "sync"

// Scope keeps the most recent rendered block for waveform display.
type Scope struct {
	mu  sync.Mutex
	buf []float64
	n   int
}

// NewScope creates a scope holding up to size samples.
func NewScope(size int) *Scope {
	return &Scope{buf: make([]float64, max(size, 1))}
}

// Publish stores the tail of block. It gives up instead of waiting when a
// reader holds the scope and reports whether the block was stored.
func (s *Scope) Publish(block []float64) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	if len(block) > len(s.buf) {
		block = block[len(block)-len(s.buf):]
	}

	s.n = copy(s.buf, block)

	return true
}

// Snapshot appends the stored block to dst[:0] and returns it.
func (s *Scope) Snapshot(dst []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(dst[:0], s.buf[:s.n]...)
}
