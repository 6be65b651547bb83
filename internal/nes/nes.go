// Package nes is the emulator core's public facade: it owns a Bus, a
// loaded Cartridge, and the joypads, and exposes frame-at-a-time
// emulation plus debug-viewer snapshots to a frontend.
package nes

import (
	"github.com/rg9k/gones-core/internal/bus"
	"github.com/rg9k/gones-core/internal/cartridge"
	"github.com/rg9k/gones-core/internal/debug"
	"github.com/rg9k/gones-core/internal/frame"
	"github.com/rg9k/gones-core/internal/input"
	"github.com/rg9k/gones-core/internal/log"
)

// Core is one NES console: a bus with CPU/PPU/APU/pads wired together,
// plus whatever cartridge is currently inserted.
type Core struct {
	bus        *bus.Bus
	cart       *cartridge.Cartridge
	running    bool
	frameDone  bool
	frameCount uint64
	logger     *log.Logger
}

// New creates a Core with no cartridge inserted.
func New() *Core {
	c := &Core{
		bus:    bus.New(),
		logger: log.For("nes"),
	}
	c.bus.PPU.SetFrameCallback(func() { c.frameDone = true })
	return c
}

// InsertCartridge parses a bit-exact iNES image, wires it onto the
// bus, and resets the console. Any previously running cartridge is
// discarded.
func (c *Core) InsertCartridge(data []uint8) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return err
	}
	c.cart = cart
	c.bus.LoadCartridge(cart)
	c.bus.Reset()
	c.frameDone = false
	c.frameCount = 0
	c.running = true
	c.logger.Infof("mapper %d, mirroring=%s", cart.MapperID(), cart.Mirror())
	return nil
}

// EmulateFrame steps the console until the PPU completes one frame
// and returns the resulting frame buffer. It is a no-op returning the
// last-rendered frame if no cartridge is loaded or the core is paused.
func (c *Core) EmulateFrame() *frame.Frame {
	if !c.running || c.cart == nil {
		return c.bus.Frame()
	}
	c.frameDone = false
	for !c.frameDone {
		c.bus.Step()
	}
	c.frameCount++
	return c.bus.Frame()
}

// ButtonPressed updates one button's pressed state for player 1 (0)
// or player 2 (1). Any other player index is ignored.
func (c *Core) ButtonPressed(player int, button input.Button, pressed bool) {
	switch player {
	case 0:
		c.bus.Pads.Player1.SetButton(button, pressed)
	case 1:
		c.bus.Pads.Player2.SetButton(button, pressed)
	}
}

// IsRunning reports whether the core has a cartridge loaded and is
// not paused.
func (c *Core) IsRunning() bool { return c.running && c.cart != nil }

// Pause suspends EmulateFrame without discarding console state.
func (c *Core) Pause() { c.running = false }

// Resume re-enables EmulateFrame after Pause.
func (c *Core) Resume() {
	if c.cart != nil {
		c.running = true
	}
}

// FrameCount reports the number of frames EmulateFrame has completed
// since the last InsertCartridge.
func (c *Core) FrameCount() uint64 { return c.frameCount }

// PatternTables renders the cartridge's two CHR pattern tables for
// debug display.
func (c *Core) PatternTables() (left, right *frame.Frame) {
	return debug.PatternTables(c.bus)
}

// PaletteStrip renders the 32-entry palette RAM as a color strip.
func (c *Core) PaletteStrip() *frame.Frame {
	return debug.PaletteStrip(c.bus)
}

// NametableMap renders all four nametables tiled 2x2, honoring the
// cartridge's mirroring.
func (c *Core) NametableMap() *frame.Frame {
	return debug.NametableMap(c.bus)
}
