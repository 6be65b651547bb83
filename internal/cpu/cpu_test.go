package cpu

import "testing"

// mockBus implements Bus for testing with a flat 64KiB address space.
type mockBus struct {
	data [0x10000]uint8
}

func (m *mockBus) Read(addr uint16) uint8     { return m.data[addr] }
func (m *mockBus) Write(addr uint16, v uint8) { m.data[addr] = v }

func (m *mockBus) setBytes(addr uint16, values ...uint8) {
	for i, v := range values {
		m.data[addr+uint16(i)] = v
	}
}

func newTestCPU() (*CPU, *mockBus) {
	bus := &mockBus{}
	c := New(bus)
	bus.setBytes(resetVector, 0x00, 0x80) // PC = 0x8000 after Reset
	c.Reset()
	return c, bus
}

func TestResetLoadsVectorAndState(t *testing.T) {
	c, _ := newTestCPU()
	if c.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", c.PC)
	}
	if c.SP != 0xFD {
		t.Fatalf("SP = %#02x, want 0xFD", c.SP)
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Fatalf("registers not cleared: A=%d X=%d Y=%d", c.A, c.X, c.Y)
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA9, 0x00) // LDA #$00
	cycles := c.Step()
	if c.A != 0 || !c.Z || c.N {
		t.Fatalf("A=%d Z=%v N=%v, want A=0 Z=true N=false", c.A, c.Z, c.N)
	}
	if cycles != 2 {
		t.Fatalf("cycles = %d, want 2", cycles)
	}
}

func TestLDAAbsoluteXPageCrossAddsCycle(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0xFF
	bus.setBytes(0x8000, 0xBD, 0x80, 0x20) // LDA $2080,X -> $217F
	bus.data[0x217F] = 0x42
	if cycles := c.Step(); cycles != 5 {
		t.Fatalf("cycles = %d, want 5 (page cross)", cycles)
	}
	if c.A != 0x42 {
		t.Fatalf("A = %#02x, want 0x42", c.A)
	}
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x50
	bus.setBytes(0x8000, 0x69, 0x50) // ADC #$50
	c.Step()
	if c.A != 0xA0 || !c.V || c.C {
		t.Fatalf("A=%#02x V=%v C=%v, want A=0xA0 V=true C=false", c.A, c.V, c.C)
	}
}

func TestSBCBorrow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x05
	c.C = true // no borrow
	bus.setBytes(0x8000, 0xE9, 0x06) // SBC #$06
	c.Step()
	if c.A != 0xFF || c.C {
		t.Fatalf("A=%#02x C=%v, want A=0xFF C=false", c.A, c.C)
	}
}

func TestStackPushPullRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x37
	startSP := c.SP
	c.push(c.A)
	c.A = 0
	c.A = c.pop()
	if c.A != 0x37 {
		t.Fatalf("A after pull = %#02x, want 0x37", c.A)
	}
	if c.SP != startSP {
		t.Fatalf("SP = %#02x, want %#02x", c.SP, startSP)
	}
}

func TestPHPForcesBreakAndUnusedBits(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x08) // PHP
	c.Step()
	pushed := bus.data[stackBase+uint16(c.SP)+1]
	if pushed&flagB == 0 || pushed&flagU == 0 {
		t.Fatalf("pushed status %#02x missing B/U bits", pushed)
	}
}

func TestPLPDoesNotRestoreBreakBit(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA9, 0xFF, 0x48, 0xA9, 0x00, 0x28) // LDA #$FF; PHA; LDA #$00; PLP
	for i := 0; i < 4; i++ {
		c.Step()
	}
	if c.B {
		t.Fatalf("B flag restored by PLP of 0xFF, want it ignored")
	}
	if !c.N || !c.V || !c.Z || !c.C {
		t.Fatalf("N=%v V=%v Z=%v C=%v after PLP of 0xFF, want all true", c.N, c.V, c.Z, c.C)
	}
}

func TestJSRPushesReturnAddressMinusOne(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("PC = %#04x, want 0x9000", c.PC)
	}
	ret := c.popWord()
	if ret != 0x8002 {
		t.Fatalf("pushed return = %#04x, want 0x8002", ret)
	}
}

func TestJSRThenRTSReturnsToNextInstruction(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	bus.setBytes(0x9000, 0x60)             // RTS
	c.Step() // JSR
	c.Step() // RTS
	if c.PC != 0x8003 {
		t.Fatalf("PC after RTS = %#04x, want 0x8003", c.PC)
	}
}

func TestNMIEntrySequence(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(nmiVector, 0x00, 0x90)
	bus.setBytes(0x8000, 0xEA) // NOP
	c.SetNMILine(true)
	c.SetNMILine(false) // falling edge latches NMI
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("PC after NMI = %#04x, want 0x9000", c.PC)
	}
	if !c.I {
		t.Fatalf("I flag not set after NMI entry")
	}
}

func TestBranchTakenAndPageCrossCycles(t *testing.T) {
	c, bus := newTestCPU()
	c.Z = true
	bus.setBytes(0x80F0, 0xF0, 0x10) // BEQ +16, crosses page from 0x80F2 to 0x8102
	c.PC = 0x80F0
	if cycles := c.Step(); cycles != 4 {
		t.Fatalf("cycles = %d, want 4 (taken + page cross)", cycles)
	}
	if c.PC != 0x8102 {
		t.Fatalf("PC = %#04x, want 0x8102", c.PC)
	}
}

func TestLAXLoadsAAndX(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA7, 0x10) // LAX $10
	bus.data[0x0010] = 0x99
	c.Step()
	if c.A != 0x99 || c.X != 0x99 {
		t.Fatalf("A=%#02x X=%#02x, want both 0x99", c.A, c.X)
	}
}

func TestDCPDecrementsAndCompares(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x10
	bus.setBytes(0x8000, 0xC7, 0x20) // DCP $20
	bus.data[0x0020] = 0x11
	c.Step()
	if bus.data[0x0020] != 0x10 {
		t.Fatalf("memory = %#02x, want 0x10", bus.data[0x0020])
	}
	if !c.Z || !c.C {
		t.Fatalf("Z=%v C=%v, want both true (A == decremented value)", c.Z, c.C)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	bus.data[0x30FF] = 0x00
	bus.data[0x3000] = 0x40 // hi byte fetched from $3000, not $3100
	c.Step()
	if c.PC != 0x4000 {
		t.Fatalf("PC = %#04x, want 0x4000 (page-wrap bug)", c.PC)
	}
}
