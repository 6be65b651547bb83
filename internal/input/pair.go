package input

// Pair bundles the two joypad latches the bus exposes at $4016/$4017.
// Strobe writes broadcast to both controllers; reads are independent.
type Pair struct {
	Player1 *Controller
	Player2 *Controller
}

// NewPair creates a Pair with both controllers idle.
func NewPair() *Pair {
	return &Pair{Player1: New(), Player2: New()}
}

// WriteStrobe broadcasts a $4016 strobe write to both controllers.
func (p *Pair) WriteStrobe(data uint8) {
	p.Player1.Write(data)
	p.Player2.Write(data)
}

// Reset clears both controllers.
func (p *Pair) Reset() {
	p.Player1.Reset()
	p.Player2.Reset()
}
