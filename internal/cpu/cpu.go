// Package cpu implements the 6502-derived "2A03" CPU core: registers,
// flags, addressing modes, the full legal and documented-unofficial
// opcode set, cycle counting, stack discipline, and NMI/reset entry.
package cpu

import "github.com/rg9k/gones-core/internal/log"

// AddressingMode names one of the 6502's operand addressing schemes.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // always 1
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7

	resetVector = 0xFFFC
	nmiVector   = 0xFFFA
	irqVector   = 0xFFFE
)

// Bus is the CPU's view of the address space.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Fault describes an internal invariant violation (an opcode that did
// not resolve to any instruction record). Step does not construct a
// Fault: it logs such an opcode as a warning and executes it as a
// 2-cycle NOP.
type Fault struct {
	PC     uint16
	Opcode uint8
}

// CPU is the 6502-derived core's register and execution state.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, B, V, N bool

	bus    Bus
	cycles uint64

	nmiLine     bool // current NMI input level
	nmiPrevious bool // previous level, for edge detection
	nmiPending  bool
	irqLine     bool

	logger *log.Logger
}

// New creates a CPU driven by the given bus. Call Reset before Step.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, SP: 0xFD, logger: log.For("cpu")}
}

// Cycles returns the monotonically increasing cycle counter.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Reset loads PC from the reset vector and sets the documented
// power-up/reset register state (A=X=Y=0, SP=0xFD, P=0x24).
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.setStatusByte(0x24)
	lo := uint16(c.bus.Read(resetVector))
	hi := uint16(c.bus.Read(resetVector + 1))
	c.PC = hi<<8 | lo
	c.cycles += 7
}

// SetNMILine updates the NMI input level; a 1->0 transition (falling
// edge) latches a pending NMI, matching the console's edge-triggered
// NMI line.
func (c *CPU) SetNMILine(level bool) {
	if c.nmiPrevious && !level {
		c.nmiPending = true
	}
	c.nmiPrevious = level
	c.nmiLine = level
}

// SetIRQLine sets the level-triggered IRQ input.
func (c *CPU) SetIRQLine(level bool) { c.irqLine = level }

// statusByte packs the seven status flags (unused bit forced to 1,
// break bit per caller) into the 6502 processor-status byte.
func (c *CPU) statusByte(breakBit bool) uint8 {
	var s uint8
	if c.N {
		s |= flagN
	}
	if c.V {
		s |= flagV
	}
	s |= flagU
	if breakBit {
		s |= flagB
	}
	if c.D {
		s |= flagD
	}
	if c.I {
		s |= flagI
	}
	if c.Z {
		s |= flagZ
	}
	if c.C {
		s |= flagC
	}
	return s
}

func (c *CPU) setStatusByte(s uint8) {
	c.N = s&flagN != 0
	c.V = s&flagV != 0
	c.D = s&flagD != 0
	c.I = s&flagI != 0
	c.Z = s&flagZ != 0
	c.C = s&flagC != 0
}

func (c *CPU) push(v uint8) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// Step fetches, decodes, and executes one instruction, servicing any
// pending interrupt at the following instruction boundary. It returns
// the number of CPU cycles the instruction consumed.
func (c *CPU) Step() uint64 {
	before := c.cycles
	opcode := c.bus.Read(c.PC)
	inst, ok := instructionTable[opcode]
	if !ok {
		c.logger.Warnf("unimplemented opcode %#02x at pc=%#04x, treating as 2-cycle NOP", opcode, c.PC)
		c.PC++
		c.cycles += 2
		return 2
	}

	addr, pageCrossed := c.operandAddress(inst.Mode)
	extra := c.execute(opcode, inst, addr, pageCrossed)

	c.cycles += uint64(inst.Cycles) + uint64(extra)

	c.serviceInterrupts()
	return c.cycles - before
}

func (c *CPU) serviceInterrupts() {
	if c.nmiPending {
		c.nmiPending = false
		c.enterInterrupt(nmiVector, false)
		c.cycles += 7
		return
	}
	if c.irqLine && !c.I {
		c.enterInterrupt(irqVector, false)
		c.cycles += 7
	}
}

func (c *CPU) enterInterrupt(vector uint16, breakBit bool) {
	c.pushWord(c.PC)
	c.push(c.statusByte(breakBit))
	c.I = true
	lo := uint16(c.bus.Read(vector))
	hi := uint16(c.bus.Read(vector + 1))
	c.PC = hi<<8 | lo
}

// operandAddress computes the effective address for mode, advancing PC
// past the instruction's operand bytes, and reports whether indexing
// crossed a page boundary.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false

	case ZeroPage:
		addr := uint16(c.bus.Read(c.PC + 1))
		c.PC += 2
		return addr, false

	case ZeroPageX:
		base := c.bus.Read(c.PC + 1)
		c.PC += 2
		return uint16(base + c.X), false

	case ZeroPageY:
		base := c.bus.Read(c.PC + 1)
		c.PC += 2
		return uint16(base + c.Y), false

	case Relative:
		offset := int8(c.bus.Read(c.PC + 1))
		next := c.PC + 2
		target := uint16(int32(next) + int32(offset))
		c.PC = next
		return target, next&0xFF00 != target&0xFF00

	case Absolute:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		c.PC += 3
		return hi<<8 | lo, false

	case AbsoluteX:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		base := hi<<8 | lo
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, base&0xFF00 != addr&0xFF00

	case AbsoluteY:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, base&0xFF00 != addr&0xFF00

	case Indirect:
		loPtr := uint16(c.bus.Read(c.PC + 1))
		hiPtr := uint16(c.bus.Read(c.PC + 2))
		ptr := hiPtr<<8 | loPtr
		var lo, hi uint16
		if ptr&0x00FF == 0x00FF {
			lo = uint16(c.bus.Read(ptr))
			hi = uint16(c.bus.Read(ptr & 0xFF00)) // page-wrap bug
		} else {
			lo = uint16(c.bus.Read(ptr))
			hi = uint16(c.bus.Read(ptr + 1))
		}
		c.PC += 3
		return hi<<8 | lo, false

	case IndexedIndirect:
		base := c.bus.Read(c.PC + 1)
		ptr := uint8(base + c.X) // zero-page wrap
		lo := uint16(c.bus.Read(uint16(ptr)))
		hi := uint16(c.bus.Read(uint16(ptr + 1)))
		c.PC += 2
		return hi<<8 | lo, false

	case IndirectIndexed:
		ptr := uint16(c.bus.Read(c.PC + 1))
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & 0x00FF))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		c.PC += 2
		return addr, base&0xFF00 != addr&0xFF00

	default:
		return 0, false
	}
}
