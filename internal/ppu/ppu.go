// Package ppu implements the 2C02 Picture Processing Unit: the
// cycle-and-scanline-accurate background/sprite pipeline, register
// file, OAM, and VBlank/NMI generation.
package ppu

import (
	"github.com/rg9k/gones-core/internal/frame"
	"github.com/rg9k/gones-core/internal/log"
)

// Bus is the PPU's view of its own 14-bit address space: pattern
// tables (routed to cartridge CHR), nametables, and palette RAM.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	ctrlNMIEnable       uint8 = 1 << 7
	ctrlSpriteHeight    uint8 = 1 << 5
	ctrlBGPatternTable  uint8 = 1 << 4
	ctrlSpritePattern   uint8 = 1 << 3
	ctrlIncrementMode   uint8 = 1 << 2
	ctrlNametableSelect uint8 = 0x03

	maskShowBGLeft     uint8 = 1 << 1
	maskShowSpriteLeft uint8 = 1 << 2
	maskShowBG         uint8 = 1 << 3
	maskShowSprites    uint8 = 1 << 4

	statusOverflow  uint8 = 1 << 5
	statusSprite0   uint8 = 1 << 6
	statusVBlank    uint8 = 1 << 7
)

// PPU is the 2C02 core's register and rendering state.
type PPU struct {
	ctrl, mask, status uint8
	oamAddr            uint8

	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8

	oam          [256]uint8
	secondaryOAM [32]uint8

	scanline int
	cycle    int
	oddFrame bool
	frame    *frame.Frame

	// dataBus is the PPU's open-bus latch: the last byte transacted
	// over $2000-$2007 in either direction, returned verbatim by
	// write-only ports and OR'd into PPUSTATUS's undefined low bits.
	dataBus uint8

	// vblSuppress is set when PPUSTATUS is read on the exact dot the
	// VBlank flag would be set, racing the set. It suppresses both the
	// flag and the NMI for the rest of that frame.
	vblSuppress bool

	bus Bus

	nmiCallback   func()
	frameCallback func()

	logger *log.Logger

	bg  bgPipeline
	spr sprPipeline

	sprite0HitFlagged bool
	sprite0OnLine     bool
}

// New creates a PPU with a blank 256x240 frame buffer. Call SetBus
// before Step.
func New() *PPU {
	return &PPU{
		scanline: -1,
		frame:    frame.New(256, 240),
		logger:   log.For("ppu"),
	}
}

// SetBus attaches the PPU's memory interface.
func (p *PPU) SetBus(bus Bus) { p.bus = bus }

// SetNMICallback registers the callback fired when the PPU asserts NMI.
func (p *PPU) SetNMICallback(cb func()) { p.nmiCallback = cb }

// SetFrameCallback registers the callback fired when a frame completes.
func (p *PPU) SetFrameCallback(cb func()) { p.frameCallback = cb }

// Frame returns the frame buffer being rendered into. Safe to read
// between Step calls; callers wanting a snapshot should copy it.
func (p *PPU) Frame() *frame.Frame { return p.frame }

// Reset returns the PPU to its post-power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.dataBus = 0
	p.vblSuppress = false
	p.scanline = -1
	p.cycle = 0
	p.oddFrame = false
	p.bg = bgPipeline{}
	p.spr = sprPipeline{}
	p.sprite0HitFlagged = false
	p.frame.Clear()
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// ReadRegister services a CPU read of $2000-$2007 (mirrored every 8
// bytes by the bus before reaching here).
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		if p.scanline == 241 && p.cycle == 1 && p.status&statusVBlank == 0 {
			p.vblSuppress = true
		}
		v := (p.status & 0xE0) | (p.dataBus & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		p.dataBus = v
		return v
	case 4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.dataBus = v
		return v
	case 7: // PPUDATA
		v := p.readData()
		p.dataBus = v
		return v
	default:
		return p.dataBus
	}
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(reg uint16, value uint8) {
	p.dataBus = value

	switch reg & 7 {
	case 0: // PPUCTRL
		prevNMI := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | uint16(value&ctrlNametableSelect)<<10
		if !prevNMI && p.ctrl&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			p.fireNMI()
		}
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(value)&0x07)<<12 | (uint16(value)&0xF8)<<2
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = (p.t &^ 0x7F00) | (uint16(value)&0x3F)<<8
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeData(value)
	}
}

// WriteOAM writes one byte of OAM, as used by OAM DMA.
func (p *PPU) WriteOAM(addr uint8, value uint8) { p.oam[addr] = value }

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var data uint8
	if addr >= 0x3F00 {
		data = p.bus.Read(addr)
		p.readBuffer = p.bus.Read(addr & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.bus.Read(addr)
	}
	p.advanceVRAMAddr()
	return data
}

func (p *PPU) writeData(value uint8) {
	p.bus.Write(p.v&0x3FFF, value)
	p.advanceVRAMAddr()
}

func (p *PPU) advanceVRAMAddr() {
	if p.ctrl&ctrlIncrementMode != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

func (p *PPU) fireNMI() {
	if p.nmiCallback != nil {
		p.nmiCallback()
	}
}

// Step advances the PPU by one PPU cycle (1/3 of a CPU cycle),
// running the background/sprite fetch pipeline and updating
// VBlank/NMI state at the documented scanline/dot boundaries.
func (p *PPU) Step() {
	p.tick()
}

func (p *PPU) tick() {
	if p.scanline >= -1 && p.scanline < 240 {
		p.stepVisibleOrPrerender()
	} else if p.scanline == 241 && p.cycle == 1 {
		if !p.vblSuppress {
			p.status |= statusVBlank
			if p.ctrl&ctrlNMIEnable != 0 {
				p.fireNMI()
			}
		}
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
			if p.frameCallback != nil {
				p.frameCallback()
			}
		}
	}
	// Odd-frame skip: the idle cycle at (-1, 339) is skipped when
	// rendering is enabled, shortening that frame by one PPU cycle.
	if p.scanline == -1 && p.cycle == 339 && p.oddFrame && p.renderingEnabled() {
		p.cycle = 340
	}
}

func (p *PPU) stepVisibleOrPrerender() {
	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
		p.sprite0HitFlagged = false
		p.vblSuppress = false
	}

	if !p.renderingEnabled() {
		return
	}

	preRender := p.scanline == -1
	visible := p.scanline >= 0 && p.scanline < 240

	if (visible || preRender) && ((p.cycle >= 1 && p.cycle <= 256) || (p.cycle >= 321 && p.cycle <= 336)) {
		p.bgShiftPipeline()
		p.bgFetchSchedule()
	}

	if p.cycle == 256 {
		p.incrementY()
	}
	if p.cycle == 257 {
		p.loadBGShifters()
		p.copyHorizontalBits()
		if visible || preRender {
			p.evaluateSprites()
		}
	}
	if preRender && p.cycle >= 280 && p.cycle <= 304 {
		p.copyVerticalBits()
	}
	if p.cycle == 340 && (visible || preRender) {
		p.fetchSpritePatterns()
	}

	if visible && p.cycle >= 1 && p.cycle <= 256 {
		p.renderPixel(p.cycle-1, p.scanline)
	}
}
