package nes

import "testing"

// buildNROM builds a minimal mapper-0 iNES image with a reset vector
// pointing at an infinite JMP loop, so EmulateFrame terminates after
// exercising CPU/PPU/bus wiring without needing real game code.
func buildNROM() []uint8 {
	header := []uint8("NES\x1A\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	prg := make([]uint8, 16*1024)
	prg[0x7FFC&0x3FFF] = 0x00 // reset vector low -> $8000
	prg[0x7FFD&0x3FFF] = 0x80 // reset vector high
	prg[0] = 0x4C             // JMP $8000
	prg[1] = 0x00
	prg[2] = 0x80
	chr := make([]uint8, 8*1024)

	data := append([]uint8{}, header...)
	data = append(data, prg...)
	data = append(data, chr...)
	return data
}

func TestInsertCartridgeStartsRunning(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(buildNROM()); err != nil {
		t.Fatalf("InsertCartridge failed: %v", err)
	}
	if !c.IsRunning() {
		t.Fatalf("expected core to be running after insert")
	}
}

func TestEmulateFrameCompletesAndAdvancesCount(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(buildNROM()); err != nil {
		t.Fatalf("InsertCartridge failed: %v", err)
	}
	f := c.EmulateFrame()
	if f == nil || f.Width != 256 || f.Height != 240 {
		t.Fatalf("unexpected frame: %v", f)
	}
	if c.FrameCount() != 1 {
		t.Fatalf("FrameCount = %d, want 1", c.FrameCount())
	}
}

func TestPauseStopsEmulation(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(buildNROM()); err != nil {
		t.Fatalf("InsertCartridge failed: %v", err)
	}
	c.Pause()
	if c.IsRunning() {
		t.Fatalf("expected core to be paused")
	}
	c.EmulateFrame()
	if c.FrameCount() != 0 {
		t.Fatalf("paused core should not advance frame count")
	}
	c.Resume()
	if !c.IsRunning() {
		t.Fatalf("expected core to resume")
	}
}

func TestInsertCartridgeRejectsBadImage(t *testing.T) {
	c := New()
	if err := c.InsertCartridge([]uint8{0x00, 0x01, 0x02}); err == nil {
		t.Fatalf("expected error for invalid image")
	}
}

func TestDebugSnapshots(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(buildNROM()); err != nil {
		t.Fatalf("InsertCartridge failed: %v", err)
	}
	left, right := c.PatternTables()
	if left.Width != 128 || right.Width != 128 {
		t.Fatalf("unexpected pattern table dimensions")
	}
	if c.PaletteStrip().Width != 256 {
		t.Fatalf("unexpected palette strip width")
	}
	if c.NametableMap().Width != 512 {
		t.Fatalf("unexpected nametable map width")
	}
}
