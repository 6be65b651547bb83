// Package bus implements the NES system bus: the CPU address decode
// (WRAM mirroring, PPU register window, APU/joypad ports, OAM DMA,
// cartridge windows) and the PPU's own 14-bit address space (pattern
// tables, mirrored nametables, palette RAM), plus the 1:3 CPU:PPU
// stepping loop that ties CPU, PPU, APU, and input together.
package bus

import (
	"github.com/rg9k/gones-core/internal/apu"
	"github.com/rg9k/gones-core/internal/cartridge"
	"github.com/rg9k/gones-core/internal/cpu"
	"github.com/rg9k/gones-core/internal/frame"
	"github.com/rg9k/gones-core/internal/input"
	"github.com/rg9k/gones-core/internal/log"
	"github.com/rg9k/gones-core/internal/ppu"
)

// Bus wires the CPU, PPU, APU, joypads, and cartridge together and
// drives them forward one CPU instruction at a time.
type Bus struct {
	CPU  *cpu.CPU
	PPU  *ppu.PPU
	APU  *apu.APU
	Pads *input.Pair

	cart *cartridge.Cartridge
	ram  [0x800]uint8

	ppuMem ppuMemory

	dmaSuspendCycles uint64
	totalCycles      uint64

	logger *log.Logger
}

// New creates a Bus with no cartridge inserted. Call LoadCartridge
// before Reset/Step.
func New() *Bus {
	b := &Bus{
		PPU:    ppu.New(),
		APU:    apu.New(),
		Pads:   input.NewPair(),
		logger: log.For("bus"),
	}
	b.CPU = cpu.New(b)
	b.PPU.SetBus(&b.ppuMem)
	b.PPU.SetNMICallback(func() { b.CPU.SetNMILine(true); b.CPU.SetNMILine(false) })
	return b
}

// LoadCartridge inserts a cartridge and configures the PPU's
// nametable-mirroring-aware memory to match it.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.ppuMem = ppuMemory{cart: cart, mirror: cart.Mirror()}
	b.logger.Infof("cartridge loaded, mirroring=%s", cart.Mirror())
}

// Reset reinitializes CPU, PPU, APU, and joypad state.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Pads.Reset()
	b.CPU.Reset()
	b.dmaSuspendCycles = 0
	b.totalCycles = 0
}

// Read services a CPU read at addr, implementing the full $0000-$FFFF
// decode: 2KiB WRAM mirrored through $1FFF, PPU registers mirrored
// every 8 bytes through $3FFF, APU/joypad ports at $4000-$401F, and
// the cartridge's PRG window at $4020-$FFFF.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.PPU.ReadRegister(addr)
	case addr == 0x4015:
		return b.APU.ReadStatus()
	case addr == 0x4016:
		return b.Pads.Player1.Read() | 0x40
	case addr == 0x4017:
		return b.Pads.Player2.Read() | 0x40
	case addr < 0x4020:
		return 0
	default:
		if b.cart == nil {
			return 0
		}
		return b.cart.ReadPRG(addr)
	}
}

// Write services a CPU write at addr, per the same decode Read uses,
// plus $4014's OAM DMA trigger.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.PPU.WriteRegister(addr, value)
	case addr == 0x4014:
		b.oamDMA(value)
	case addr == 0x4016:
		b.Pads.WriteStrobe(value)
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.APU.WriteRegister(addr, value)
	case addr < 0x4020:
		// test-mode registers, unimplemented
	default:
		if b.cart != nil {
			b.cart.WritePRG(addr, value)
		}
	}
}

// oamDMA performs the 256-byte OAM transfer from page*0x100 and
// suspends the CPU for 513 (or 514, on an odd CPU cycle) cycles.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAM(uint8(i), b.Read(base+uint16(i)))
	}
	b.dmaSuspendCycles = 513
	if b.totalCycles%2 == 1 {
		b.dmaSuspendCycles = 514
	}
}

// Step executes one CPU instruction (or one DMA-suspended cycle) and
// steps the PPU three times and the APU once per CPU cycle consumed,
// maintaining the console's 1:3 CPU:PPU clock ratio.
func (b *Bus) Step() uint64 {
	var cpuCycles uint64
	if b.dmaSuspendCycles > 0 {
		b.dmaSuspendCycles--
		cpuCycles = 1
	} else {
		cpuCycles = b.CPU.Step()
	}

	for i := uint64(0); i < cpuCycles*3; i++ {
		b.PPU.Step()
	}
	for i := uint64(0); i < cpuCycles; i++ {
		b.APU.Step()
	}
	b.totalCycles += cpuCycles
	return cpuCycles
}

// Frame returns the PPU's frame buffer.
func (b *Bus) Frame() *frame.Frame { return b.PPU.Frame() }

// PeekCHR reads a cartridge CHR byte directly, bypassing PPUDATA's
// buffered-read protocol. Used by debug viewers.
func (b *Bus) PeekCHR(addr uint16) uint8 { return b.ppuMem.Read(addr & 0x1FFF) }

// PeekPalette reads one of the 32 palette RAM entries directly.
func (b *Bus) PeekPalette(index uint8) uint8 { return b.ppuMem.palette[index&0x1F] }

// PeekNametable reads a byte of the backing nametable RAM at a flat
// 0x1000-byte offset (table*0x400+tileOffset). No mirroring is applied:
// the offset indexes the physical nametable storage directly.
func (b *Bus) PeekNametable(offset uint16) uint8 { return b.ppuMem.nametables[offset&0x0FFF] }

// Mirroring reports the loaded cartridge's nametable mirroring mode,
// or horizontal mirroring if no cartridge is loaded.
func (b *Bus) Mirroring() cartridge.Mirroring { return b.ppuMem.mirror }

// ppuMemory implements ppu.Bus: pattern tables routed to the
// cartridge, mirrored nametables, and palette RAM with the documented
// background-color mirror aliasing.
type ppuMemory struct {
	cart       *cartridge.Cartridge
	mirror     cartridge.Mirroring
	nametables [0x1000]uint8
	palette    [32]uint8
}

func (m *ppuMemory) Read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if m.cart == nil {
			return 0
		}
		return m.cart.ReadCHR(addr)
	case addr < 0x3F00:
		return m.nametables[m.nametableIndex(addr)]
	default:
		return m.palette[m.paletteIndex(addr)]
	}
}

func (m *ppuMemory) Write(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if m.cart != nil {
			m.cart.WriteCHR(addr, value)
		}
	case addr < 0x3F00:
		m.nametables[m.nametableIndex(addr)] = value
	default:
		m.palette[m.paletteIndex(addr)] = value
	}
}

func (m *ppuMemory) nametableIndex(addr uint16) uint16 {
	addr &= 0x0FFF
	table := (addr >> 10) & 0x03
	offset := addr & 0x03FF

	switch m.mirror {
	case cartridge.MirrorHorizontal:
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	case cartridge.MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case cartridge.MirrorFourScreen:
		return table*0x400 + offset
	default:
		return offset
	}
}

func (m *ppuMemory) paletteIndex(addr uint16) uint16 {
	index := (addr - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return index
}
