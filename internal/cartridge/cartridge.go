// Package cartridge parses iNES ROM images and exposes the
// cartridge's PRG/CHR storage through a pluggable Mapper.
package cartridge

import "github.com/rg9k/gones-core/internal/log"

// Mirroring is the nametable mirroring policy declared by the
// cartridge header.
type Mirroring int

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
)

const (
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
	headerSize  = 16
	trainerSize = 512
)

var logger = log.For("cartridge")

// Cartridge owns the PRG/CHR bytes decoded from an iNES image plus
// the mapper instance selected for it. It outlives the CPU bus and
// PPU instances that read through its mapper.
type Cartridge struct {
	prgROM []uint8
	chrROM []uint8
	sram   [0x2000]uint8

	mapperID  uint8
	mapper    Mapper
	mirror    Mirroring
	hasCHRRAM bool
}

// Mirror reports the cartridge's nametable mirroring mode.
func (c *Cartridge) Mirror() Mirroring { return c.mirror }

// MapperID reports the iNES mapper number this cartridge was built for.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }

// ReadPRG/WritePRG/ReadCHR/WriteCHR delegate to the cartridge's mapper.
func (c *Cartridge) ReadPRG(addr uint16) uint8        { return c.mapper.ReadPRG(addr) }
func (c *Cartridge) WritePRG(addr uint16, v uint8)    { c.mapper.WritePRG(addr, v) }
func (c *Cartridge) ReadCHR(addr uint16) uint8        { return c.mapper.ReadCHR(addr) }
func (c *Cartridge) WriteCHR(addr uint16, v uint8)    { c.mapper.WriteCHR(addr, v) }
func (c *Cartridge) ScanlineTick()                    { c.mapper.ScanlineTick() }

// Load parses a bit-exact iNES image (see spec §6) into a Cartridge.
func Load(data []uint8) (*Cartridge, error) {
	if len(data) < headerSize || string(data[0:3]) != "NES" || data[3] != 0x1A {
		return nil, &LoadError{Kind: UnsupportedFormat, Detail: "missing iNES signature"}
	}
	if data[7]&0x0C == 0x08 {
		return nil, &LoadError{Kind: UnsupportedFormat, Detail: "NES 2.0 is not supported"}
	}

	prgSize := int(data[4]) * prgBankSize
	chrSize := int(data[5]) * chrBankSize
	flags6 := data[6]

	cart := &Cartridge{
		mapperID: (flags6 >> 4) | (data[7] & 0xF0),
	}

	switch {
	case flags6&0x08 != 0:
		cart.mirror = MirrorFourScreen
	case flags6&0x01 != 0:
		cart.mirror = MirrorVertical
	default:
		cart.mirror = MirrorHorizontal
	}

	offset := headerSize
	if flags6&0x04 != 0 {
		offset += trainerSize
	}

	if offset+prgSize > len(data) {
		return nil, &LoadError{Kind: TruncatedROM, Detail: "PRG-ROM exceeds supplied data"}
	}
	cart.prgROM = append([]uint8(nil), data[offset:offset+prgSize]...)
	offset += prgSize

	if chrSize == 0 {
		banks := 1
		if cart.mapperID == 3 {
			banks = 4 // CNROM selects among up to four 8 KiB CHR banks
		}
		cart.chrROM = make([]uint8, chrBankSize*banks)
		cart.hasCHRRAM = true
	} else {
		if offset+chrSize > len(data) {
			return nil, &LoadError{Kind: TruncatedROM, Detail: "CHR-ROM exceeds supplied data"}
		}
		cart.chrROM = append([]uint8(nil), data[offset:offset+chrSize]...)
	}

	mapper, err := newMapper(cart.mapperID, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	logger.Infof("loaded cartridge: mapper=%d prg=%dKiB chr=%dKiB mirror=%v chrRAM=%v",
		cart.mapperID, len(cart.prgROM)/1024, len(cart.chrROM)/1024, cart.mirror, cart.hasCHRRAM)

	return cart, nil
}
