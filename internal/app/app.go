// Package app is the reference Ebitengine frontend: an ebiten.Game
// adapter that drives an nes.Core one frame per Update and blits its
// output in Draw.
package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rg9k/gones-core/internal/config"
	"github.com/rg9k/gones-core/internal/frame"
	"github.com/rg9k/gones-core/internal/input"
	"github.com/rg9k/gones-core/internal/log"
	"github.com/rg9k/gones-core/internal/nes"
)

// Game implements ebiten.Game, owning the emulator core and the
// ebiten.Image the core's frame buffer is copied into each Draw.
type Game struct {
	core   *nes.Core
	cfg    *config.Config
	screen *ebiten.Image
	last   *frame.Frame
	logger *log.Logger
}

// New creates a Game for the given core and configuration. The core
// must already have a cartridge inserted.
func New(core *nes.Core, cfg *config.Config) *Game {
	g := &Game{
		core:   core,
		cfg:    cfg,
		screen: ebiten.NewImage(256, 240),
		logger: log.For("app"),
	}
	g.logger.Infof("window %dx%d, filter=%s", cfg.Scale*256, cfg.Scale*240, cfg.Filter)
	return g
}

var keyButtons = map[ebiten.Key]input.Button{
	ebiten.KeyZ:         input.ButtonA,
	ebiten.KeyX:         input.ButtonB,
	ebiten.KeyBackslash: input.ButtonSelect,
	ebiten.KeyEnter:     input.ButtonStart,
	ebiten.KeyUp:        input.ButtonUp,
	ebiten.KeyDown:      input.ButtonDown,
	ebiten.KeyLeft:      input.ButtonLeft,
	ebiten.KeyRight:     input.ButtonRight,
}

// Update implements ebiten.Game: forwards keyboard state to the
// core's player-1 controller and advances exactly one frame.
func (g *Game) Update() error {
	for key, button := range keyButtons {
		g.core.ButtonPressed(0, button, ebiten.IsKeyPressed(key))
	}
	g.last = g.core.EmulateFrame()
	return nil
}

// Draw implements ebiten.Game: copies the last emulated frame into
// the screen image and draws it scaled to the configured window size.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.last == nil {
		return
	}
	g.screen.WritePixels(g.last.ToRGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.cfg.Scale), float64(g.cfg.Scale))
	if g.cfg.Filter == "linear" {
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(g.screen, op)
}

// Layout implements ebiten.Game: the emulator always renders at its
// native 256x240 resolution; ebiten handles the window-level scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

// Run configures the ebiten window per cfg and blocks running the
// game loop until the window is closed.
func Run(core *nes.Core, cfg *config.Config) error {
	width, height := cfg.WindowSize()
	ebiten.SetWindowTitle("gones")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)

	return ebiten.RunGame(New(core, cfg))
}
