// Package debug renders non-destructive snapshots of PPU state —
// pattern tables, the palette, and the nametables — for inspection
// tooling, without disturbing the running emulation.
package debug

import (
	"github.com/rg9k/gones-core/internal/bus"
	"github.com/rg9k/gones-core/internal/cartridge"
	"github.com/rg9k/gones-core/internal/frame"
)

// peeker is the subset of *bus.Bus a viewer needs; satisfied by
// *bus.Bus itself, kept narrow so tests can fake it.
type peeker interface {
	PeekCHR(addr uint16) uint8
	PeekPalette(index uint8) uint8
	PeekNametable(offset uint16) uint8
	Mirroring() cartridge.Mirroring
}

var _ peeker = (*bus.Bus)(nil)

// grayscaleRamp maps a 2-bit CHR color index to a fixed grayscale RGB
// triple, used by PatternTables since pattern-table tiles carry no
// palette assignment of their own.
var grayscaleRamp = [4][3]uint8{
	{0x00, 0x00, 0x00},
	{0x55, 0x55, 0x55},
	{0xAA, 0xAA, 0xAA},
	{0xFF, 0xFF, 0xFF},
}

// PatternTables renders the cartridge's two 16x16-tile, 8x8-pixel CHR
// banks ($0000-$0FFF and $1000-$1FFF) as 128x128 images, using a fixed
// grayscale ramp for the 4 color indices.
func PatternTables(b *bus.Bus) (left, right *frame.Frame) {
	return renderTable(b, 0x0000), renderTable(b, 0x1000)
}

func renderTable(p peeker, base uint16) *frame.Frame {
	img := frame.New(128, 128)
	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			tile := uint16(tileY*16 + tileX)
			addr := base + tile*16
			for row := 0; row < 8; row++ {
				lo := p.PeekCHR(addr + uint16(row))
				hi := p.PeekCHR(addr + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					bit := uint(7 - col)
					colorIdx := (hi>>bit)&1<<1 | (lo>>bit)&1
					c := grayscaleRamp[colorIdx]
					img.SetRGB(tileX*8+col, tileY*8+row, c[0], c[1], c[2])
				}
			}
		}
	}
	return img
}

// PaletteStrip renders the 32 palette RAM entries as a 256x8 strip,
// 8 pixels per entry in one row, background palettes (entries 0-15)
// left of sprite palettes (entries 16-31).
func PaletteStrip(b *bus.Bus) *frame.Frame {
	img := frame.New(256, 8)
	for i := 0; i < 32; i++ {
		nesColor := b.PeekPalette(uint8(i)) & 0x3F
		r, g, bl := frame.LookupRGB(nesColor)
		for x := 0; x < 8; x++ {
			for y := 0; y < 8; y++ {
				img.SetRGB(i*8+x, y, r, g, bl)
			}
		}
	}
	return img
}

// NametableMap renders the full 4-nametable 2x2 layout (512x480) as
// seen through the cartridge's mirroring, with no scroll applied.
func NametableMap(b *bus.Bus) *frame.Frame {
	img := frame.New(512, 480)
	for table := 0; table < 4; table++ {
		originX := (table % 2) * 256
		originY := (table / 2) * 240
		drawNametable(b, img, uint16(table), originX, originY)
	}
	return img
}

func drawNametable(b *bus.Bus, img *frame.Frame, table uint16, originX, originY int) {
	tableBase := mirroredNametableBase(b.Mirroring(), table)
	for tileY := 0; tileY < 30; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			tileAddr := tableBase + uint16(tileY*32+tileX)
			tile := b.PeekNametable(tileAddr)

			attrAddr := tableBase + 0x3C0 + uint16((tileY/4)*8+(tileX/4))
			attr := b.PeekNametable(attrAddr)
			quadShift := uint(((tileY/2)%2)*4 + ((tileX/2)%2)*2)
			paletteIndex := (attr >> quadShift) & 0x03

			for row := 0; row < 8; row++ {
				lo := b.PeekCHR(uint16(tile)*16 + uint16(row))
				hi := b.PeekCHR(uint16(tile)*16 + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					bit := uint(7 - col)
					colorIdx := (hi>>bit)&1<<1 | (lo>>bit)&1
					var nesColor uint8
					if colorIdx != 0 {
						nesColor = b.PeekPalette(paletteIndex*4+colorIdx) & 0x3F
					} else {
						nesColor = b.PeekPalette(0) & 0x3F
					}
					r, g, bl := frame.LookupRGB(nesColor)
					img.SetRGB(originX+tileX*8+col, originY+tileY*8+row, r, g, bl)
				}
			}
		}
	}
}

// mirroredNametableBase maps a logical 0-3 nametable index to its
// backing 0x400-byte region, per the cartridge's mirroring mode.
func mirroredNametableBase(mirror cartridge.Mirroring, table uint16) uint16 {
	switch mirror {
	case cartridge.MirrorHorizontal:
		if table >= 2 {
			return 0x400
		}
		return 0
	case cartridge.MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400
		}
		return 0
	case cartridge.MirrorFourScreen:
		return table * 0x400
	default:
		return 0
	}
}
