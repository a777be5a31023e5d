package i2c

import (
	"fmt"

	"github.com/cjeanneret/FocusGo/internal/debug"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DevTransport is the real implementation using periph.io.
// It addresses a single device on one Linux I²C bus (/dev/i2c-N).
type DevTransport struct {
	bus  i2c.BusCloser
	dev  *i2c.Dev
	name string
	addr uint16
}

// NewDevTransport opens the named I²C bus and binds the device address.
// Requires /dev/i2c-* access (i2c group or root).
func NewDevTransport(busName string, addr uint16) (*DevTransport, error) {
	debug.Info("Initializing real I2C transport (periph.io)")

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w (is the i2c device enabled?)", busName, err)
	}

	debug.Verbose("I2C bus %s opened, device addr %#x", busName, addr)

	return &DevTransport{
		bus:  bus,
		dev:  &i2c.Dev{Bus: bus, Addr: addr},
		name: busName,
		addr: addr,
	}, nil
}

func (t *DevTransport) Write(data1, data2 byte) error {
	debug.I2C(t.name, t.addr, data1, data2)
	if err := t.dev.Tx([]byte{data1, data2}, nil); err != nil {
		return fmt.Errorf("i2c write to %#x on bus %s: %w", t.addr, t.name, err)
	}
	return nil
}

func (t *DevTransport) Close() error {
	debug.Trace("I2C Close (real transport)")
	return t.bus.Close()
}
