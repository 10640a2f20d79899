package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cwbudde/algo-pluck/dsp/bank"
	"github.com/cwbudde/algo-pluck/internal/keymap"
	"github.com/cwbudde/algo-pluck/internal/output"
)

var keyCodes = map[rune]ebiten.Key{
	'q': ebiten.KeyQ,
	'w': ebiten.KeyW,
	'e': ebiten.KeyE,
	'a': ebiten.KeyA,
	's': ebiten.KeyS,
	'd': ebiten.KeyD,
	'f': ebiten.KeyF,
	'g': ebiten.KeyG,
	'h': ebiten.KeyH,
	'j': ebiten.KeyJ,
	'k': ebiten.KeyK,
	'l': ebiten.KeyL,
}

type keyBinding struct {
	key ebiten.Key
	keymap.Binding
}

type game struct {
	bank     *bank.Bank
	router   *noteRouter
	scope    *output.Scope
	player   output.Backend
	bindings []keyBinding
	wave     []float64
}

func newGame(b *bank.Bank, router *noteRouter, scope *output.Scope, player output.Backend) *game {
	g := &game{
		bank:   b,
		router: router,
		scope:  scope,
		player: player,
		wave:   make([]float64, 0, b.BlockSize()),
	}

	for _, kb := range keymap.Default() {
		if k, ok := keyCodes[kb.Key]; ok {
			g.bindings = append(g.bindings, keyBinding{key: k, Binding: kb})
		}
	}

	return g
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if err := g.player.Err(); err != nil {
		logger.Error("audio device", "err", err)
		return ebiten.Termination
	}

	for _, kb := range g.bindings {
		if inpututil.IsKeyJustPressed(kb.key) {
			if err := g.router.keyDown(kb.Slot, kb.Frequency); err != nil {
				logger.Warn("pluck rejected", "note", kb.Name, "err", err)
				continue
			}
			logger.Debug("pluck", "note", kb.Name, "slot", kb.Slot, "freq", kb.Frequency)
		}

		if inpututil.IsKeyJustReleased(kb.key) && g.router.keyUp(kb.Slot) {
			logger.Debug("release", "note", kb.Name, "slot", kb.Slot)
		}
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	g.wave = g.scope.Snapshot(g.wave)
	drawWaveform(screen, g.wave)
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// drawWaveform draws one segment per screen column, sample value +1 at the
// top edge and -1 at the bottom.
func drawWaveform(dst *ebiten.Image, wave []float64) {
	if len(wave) < 2 {
		return
	}

	half := float32(screenHeight) / 2

	prevX, prevY := float32(0), waveY(wave[0], half)
	for x := 1; x < screenWidth; x++ {
		i := x * (len(wave) - 1) / (screenWidth - 1)
		y := waveY(wave[i], half)
		vector.StrokeLine(dst, prevX, prevY, float32(x), y, 1, color.White, false)
		prevX, prevY = float32(x), y
	}
}

func waveY(s float64, half float32) float32 {
	return half - float32(s)*half
}
