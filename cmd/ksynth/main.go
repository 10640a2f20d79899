// Command ksynth is a twelve-key plucked-string synthesizer.
//
// Keys q w e a s d f g h j k l pluck B3 through F5; releasing a key silences
// its string. Escape or closing the window quits. The most recent audio
// block is drawn as a waveform.
//
// Usage:
//
//	ksynth [flags]
//
// Examples:
//
//	ksynth
//	ksynth -decay 0.999 -damping 3
//	ksynth -midi keystation -debug
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cwbudde/algo-pluck/dsp/bank"
	"github.com/cwbudde/algo-pluck/dsp/core"
	"github.com/cwbudde/algo-pluck/dsp/pcm"
	"github.com/cwbudde/algo-pluck/internal/midiin"
	"github.com/cwbudde/algo-pluck/internal/output"
	"github.com/cwbudde/algo-pluck/internal/paout"
)

const (
	screenWidth  = 640
	screenHeight = 480
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	block := flag.Int("block", 1024, "audio block size in samples")
	decay := flag.Float64("decay", 0.995, "feedback gain per sample, (0,1]")
	damping := flag.Int("damping", 2, "loop filter width in samples")
	gain := flag.Float64("gain", 1, "output gain applied before clipping")
	format := flag.String("format", "f32", "device sample format: f32 or s16 (oto only)")
	backend := flag.String("backend", "oto", "audio backend: oto or portaudio")
	midiPattern := flag.String("midi", "", "connect the MIDI input whose name contains this pattern ('*' for any)")
	budget := flag.Int("budget", 0, "maximum delay samples across all strings, 0 for unlimited")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ksynth [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays Karplus-Strong strings from the keys q w e a s d f g h j k l.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	initLogger(*debug)

	if err := run(config{
		sampleRate: *rate,
		blockSize:  *block,
		decay:      *decay,
		damping:    *damping,
		gain:       *gain,
		format:     *format,
		backend:    *backend,
		midi:       *midiPattern,
		budget:     *budget,
	}); err != nil {
		logger.Error("ksynth failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	sampleRate int
	blockSize  int
	decay      float64
	damping    int
	gain       float64
	format     string
	backend    string
	midi       string
	budget     int
}

func run(cfg config) error {
	format, err := pcm.ParseFormat(cfg.format)
	if err != nil {
		return err
	}

	b := bank.New(
		bank.WithProcessorOptions(
			core.WithSampleRate(float64(cfg.sampleRate)),
			core.WithBlockSize(cfg.blockSize),
		),
		bank.WithDecay(cfg.decay),
		bank.WithDamping(cfg.damping),
		bank.WithSampleBudget(cfg.budget),
	)

	scope := output.NewScope(b.BlockSize())
	stream := output.NewStream(b,
		output.WithFormat(format),
		output.WithGain(cfg.gain),
		output.WithScope(scope),
		output.WithBlockSize(b.BlockSize()),
	)

	player, err := openBackend(cfg.backend, b, format, stream)
	if err != nil {
		return err
	}
	defer func() {
		if err := player.Close(); err != nil {
			logger.Warn("closing audio", "err", err)
		}
	}()

	if err := player.Start(); err != nil {
		return err
	}

	router := newNoteRouter(b)

	if cfg.midi != "" {
		pattern := cfg.midi
		if pattern == "*" {
			pattern = ""
		}

		in, err := midiin.Open(pattern, router.handle, logger)
		if err != nil {
			logger.Warn("midi input unavailable", "err", err)
		} else {
			defer in.Close()
		}
	}

	logger.Info("ksynth ready",
		"sample_rate", b.SampleRate(),
		"block", b.BlockSize(),
		"decay", cfg.decay,
		"damping", cfg.damping,
		"backend", cfg.backend,
		"format", format.String())

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Karplus-Strong Synth")
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(newGame(b, router, scope, player)); err != nil {
		return fmt.Errorf("window: %w", err)
	}

	b.RetireAll()

	return nil
}

func openBackend(name string, b *bank.Bank, format pcm.Format, stream *output.Stream) (output.Backend, error) {
	switch name {
	case "oto":
		return output.NewPlayer(int(b.SampleRate()), b.BlockSize(), format, stream, logger)
	case "portaudio":
		return paout.New(int(b.SampleRate()), b.BlockSize(), stream, logger)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", name)
	}
}
