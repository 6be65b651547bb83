package debug

import "github.com/rg9k/gones-core/internal/bus"

func newTestBus() *bus.Bus {
	return bus.New()
}
