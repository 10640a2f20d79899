// Package paout plays an output.Stream through PortAudio.
package paout

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-pluck/internal/output"
)

var _ output.Backend = (*Player)(nil)

// Player plays a Stream through the PortAudio default output.
// The device pulls float32 blocks of the bank block size from the
// stream's Fill method.
type Player struct {
	stream *portaudio.Stream
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

// New initializes PortAudio and opens a mono output.
func New(sampleRate, blockSize int, src *output.Stream, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("paout: portaudio init: %w", err)
	}

	s, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), blockSize, src.Fill)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("paout: open portaudio stream: %w", err)
	}

	logger.Info("audio device ready",
		"backend", "portaudio",
		"sample_rate", sampleRate,
		"frames_per_buffer", blockSize)

	return &Player{stream: s, logger: logger}, nil
}

// Start begins playback. It is a no-op once started.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stream == nil {
		return nil
	}

	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("paout: start portaudio stream: %w", err)
	}

	p.started = true
	p.logger.Debug("playback started")

	return nil
}

// Close stops the stream and terminates PortAudio.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}

	var err error
	if p.started {
		err = p.stream.Stop()
	}

	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}

	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}

	p.stream = nil
	p.started = false
	p.logger.Debug("playback stopped")

	if err != nil {
		return fmt.Errorf("paout: close portaudio: %w", err)
	}

	return nil
}

// Err always returns nil; PortAudio reports failures from Start and Close.
func (p *Player) Err() error {
	return nil
}
