package ppu

import "github.com/rg9k/gones-core/internal/frame"

const maxSpritesPerLine = 8

// sprPipeline holds the up-to-8 sprites selected for the scanline
// about to be drawn: their shift registers, attribute latches, and
// per-sprite X delay counters.
type sprPipeline struct {
	count      uint8
	patternLo  [maxSpritesPerLine]uint8
	patternHi  [maxSpritesPerLine]uint8
	attrib     [maxSpritesPerLine]uint8
	xCounter   [maxSpritesPerLine]uint8
	origIndex  [maxSpritesPerLine]uint8
}

type evaluatedSprite struct {
	y, tile, attrib, x uint8
	origIndex          uint8
}

var evalScratch [maxSpritesPerLine]evaluatedSprite

// evaluateSprites selects up to 8 sprites visible on the scanline
// following the current one, per spec: secondary OAM is cleared
// unconditionally each call rather than byte-by-byte over cycles
// 1-64, since the visible result is identical for any sprite whose
// OAM entry is not itself being DMA'd mid-scanline.
func (p *PPU) evaluateSprites() {
	target := p.scanline + 1
	height := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		height = 16
	}

	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	p.sprite0OnLine = false

	found := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if target < y+1 || target >= y+1+height {
			continue
		}
		if found < maxSpritesPerLine {
			evalScratch[found] = evaluatedSprite{
				y:         p.oam[i*4],
				tile:      p.oam[i*4+1],
				attrib:    p.oam[i*4+2],
				x:         p.oam[i*4+3],
				origIndex: uint8(i),
			}
			if i == 0 {
				p.sprite0OnLine = true
			}
			found++
		} else {
			p.status |= statusOverflow
			p.logger.Debugf("sprite overflow on scanline %d", target)
			break
		}
	}
	p.spr.count = uint8(found)
	for i := 0; i < found; i++ {
		p.spr.attrib[i] = evalScratch[i].attrib
		p.spr.xCounter[i] = evalScratch[i].x
		p.spr.origIndex[i] = evalScratch[i].origIndex
	}
}

// fetchSpritePatterns loads pattern-table data for each sprite chosen
// by evaluateSprites, applying the sprite's flip attributes, ready
// for shifting out during the next scanline.
func (p *PPU) fetchSpritePatterns() {
	height := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		height = 16
	}
	target := p.scanline + 1

	for i := 0; i < int(p.spr.count); i++ {
		s := evalScratch[i]
		row := target - (int(s.y) + 1)
		if s.attrib&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}

		var base uint16
		tile := uint16(s.tile)
		if height == 16 {
			base = uint16(s.tile&0x01) * 0x1000
			tile = uint16(s.tile &^ 0x01)
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			if p.ctrl&ctrlSpritePattern != 0 {
				base = 0x1000
			}
		}

		addr := base + tile*16 + uint16(row)
		lo := p.bus.Read(addr)
		hi := p.bus.Read(addr + 8)
		if s.attrib&0x40 != 0 { // horizontal flip
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spr.patternLo[i] = lo
		p.spr.patternHi[i] = hi
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixel scans active sprites in priority order (lowest OAM
// index wins) and returns the first opaque pixel.
func (p *PPU) spritePixel() (colorIndex, paletteIndex uint8, behindBG bool, isSpriteZero bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, false, false
	}
	for i := 0; i < int(p.spr.count); i++ {
		if p.spr.xCounter[i] != 0 {
			continue
		}
		lo := (p.spr.patternLo[i] >> 7) & 1
		hi := (p.spr.patternHi[i] >> 7) & 1
		idx := hi<<1 | lo
		if idx == 0 {
			continue
		}
		return idx, p.spr.attrib[i] & 0x03, p.spr.attrib[i]&0x20 != 0, p.spr.origIndex[i] == 0 && p.sprite0OnLine
	}
	return 0, 0, false, false
}

func (p *PPU) stepSpriteShifters() {
	for i := 0; i < int(p.spr.count); i++ {
		if p.spr.xCounter[i] > 0 {
			p.spr.xCounter[i]--
		} else {
			p.spr.patternLo[i] <<= 1
			p.spr.patternHi[i] <<= 1
		}
	}
}

// renderPixel composites the background and sprite pixel at (x,y),
// applies left-edge clipping and sprite-zero-hit detection, and writes
// the resolved color into the frame buffer.
func (p *PPU) renderPixel(x, y int) {
	bgColor, bgPal := p.bgPixel()
	if x < 8 && p.mask&maskShowBGLeft == 0 {
		bgColor = 0
	}

	sprColor, sprPal, behindBG, isSpriteZero := p.spritePixel()
	if x < 8 && p.mask&maskShowSpriteLeft == 0 {
		sprColor = 0
	}

	if isSpriteZero && bgColor != 0 && sprColor != 0 && !p.sprite0HitFlagged &&
		x != 255 && p.mask&(maskShowBG|maskShowSprites) == maskShowBG|maskShowSprites {
		p.sprite0HitFlagged = true
		p.status |= statusSprite0
	}

	var paletteAddr uint16
	switch {
	case bgColor == 0 && sprColor == 0:
		paletteAddr = 0x3F00
	case bgColor == 0:
		paletteAddr = 0x3F10 + uint16(sprPal)*4 + uint16(sprColor)
	case sprColor == 0:
		paletteAddr = 0x3F00 + uint16(bgPal)*4 + uint16(bgColor)
	case behindBG:
		paletteAddr = 0x3F00 + uint16(bgPal)*4 + uint16(bgColor)
	default:
		paletteAddr = 0x3F10 + uint16(sprPal)*4 + uint16(sprColor)
	}

	nesColor := p.bus.Read(paletteAddr) & 0x3F
	r, g, b := frame.LookupRGB(nesColor)
	p.frame.SetRGB(x, y, r, g, b)

	p.stepSpriteShifters()
}
