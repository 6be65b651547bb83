package input

import "testing"

func TestStrobeSequence(t *testing.T) {
	c := New()
	c.SetButton(ButtonUp, true)

	c.Write(1) // strobe high
	c.Write(0) // falling edge resets cursor

	want := []uint8{0, 0, 0, 0, 1, 0, 0, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("read %d: expected %d got %d", i, w, got)
		}
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("ninth read: expected 1 got %d", got)
	}
}

func TestStrobeHighAlwaysReturnsA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)
	for i := 0; i < 5; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("read %d while strobed: expected 1 got %d", i, got)
		}
	}
}

func TestPairBroadcastsStrobe(t *testing.T) {
	p := NewPair()
	p.Player1.SetButton(ButtonB, true)
	p.Player2.SetButton(ButtonStart, true)

	p.WriteStrobe(1)
	p.WriteStrobe(0)

	if got := p.Player1.Read(); got != 0 {
		t.Fatalf("player1 bit0: expected 0 got %d", got)
	}
	if got := p.Player1.Read(); got != 1 {
		t.Fatalf("player1 bit1 (B): expected 1 got %d", got)
	}
	if got := p.Player2.Read(); got != 0 {
		t.Fatalf("player2 bit0: expected 0 got %d", got)
	}
}
