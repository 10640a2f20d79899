package output

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-pluck/dsp/pcm"
)

// Backend is an open audio device playing a Stream.
type Backend interface {
	Start() error
	Close() error
	Err() error
}

var _ Backend = (*Player)(nil)

// Player plays a mono stream on the default audio device through oto.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewPlayer opens the audio device for sampleRate Hz in format and
// attaches src. blockSize sets the device buffer length in samples.
// Only one Player may exist per process.
func NewPlayer(sampleRate, blockSize int, format pcm.Format, src io.Reader, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       otoFormat(format),
		BufferSize:   bufferDuration(blockSize, sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("output: open audio device: %w", err)
	}
	<-ready

	logger.Info("audio device ready",
		"sample_rate", sampleRate,
		"format", format.String(),
		"buffer", op.BufferSize)

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
		logger: logger,
	}, nil
}

// Start begins playback. It is a no-op once started.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.player == nil {
		return nil
	}

	p.player.Play()
	p.started = true
	p.logger.Debug("playback started")

	return nil
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}

	err := p.player.Close()
	p.player = nil
	p.started = false
	p.logger.Debug("playback stopped")

	if err != nil {
		return fmt.Errorf("output: close player: %w", err)
	}

	return nil
}

// Err reports an asynchronous device error, if any.
func (p *Player) Err() error {
	return p.ctx.Err()
}

func otoFormat(f pcm.Format) oto.Format {
	if f == pcm.FormatInt16LE {
		return oto.FormatSignedInt16LE
	}

	return oto.FormatFloat32LE
}

func bufferDuration(blockSize, sampleRate int) time.Duration {
	if blockSize <= 0 || sampleRate <= 0 {
		return 0
	}

	return time.Duration(blockSize) * time.Second / time.Duration(sampleRate)
}
