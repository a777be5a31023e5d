package lens

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cjeanneret/FocusGo/internal/debug"
	"github.com/cjeanneret/FocusGo/internal/hw/i2c"
)

// MaxStep is the highest lens position the VCM accepts.
// 0 = infinity, 1023 = macro.
const MaxStep = 1023

// ErrOutOfRange is returned when a step is outside [0, MaxStep].
// This is a programmer error: it is raised before any bus access.
var ErrOutOfRange = errors.New("lens: step out of range")

// TransportError reports a failed hardware write, carrying the step
// that was being commanded for diagnostics.
type TransportError struct {
	Step int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lens: i2c write failed at step %d: %v", e.Step, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Driver positions the lens VCM of an ArduCAM IMX219-AF module through
// an I²C transport. It is an intermediate layer between the focus
// search logic and the bus.
type Driver struct {
	tr i2c.Transport

	mu   sync.Mutex
	last int // last successfully commanded step, -1 before the first write
}

// NewDriver creates a lens driver on the given transport.
func NewDriver(tr i2c.Transport) *Driver {
	return &Driver{tr: tr, last: -1}
}

// Encode maps a logical step to the two register bytes of the VCM.
// The 10-bit position field starts at bit 4; the 4 low bits are
// reserved. data1 carries the 6 MSB, data2 the 4 LSB aligned to the
// top nibble. This layout must match the device exactly.
func Encode(step int) (data1, data2 byte) {
	value := (step << 4) & 0x3FF0
	data1 = byte((value >> 8) & 0x3F)
	data2 = byte(value & 0xF0)
	return data1, data2
}

// SetPosition moves the lens to the given step.
// Steps outside [0, MaxStep] fail with ErrOutOfRange without touching
// the bus; transport failures are wrapped in *TransportError.
func (d *Driver) SetPosition(step int) error {
	if step < 0 || step > MaxStep {
		return fmt.Errorf("%w: %d (valid 0-%d)", ErrOutOfRange, step, MaxStep)
	}

	data1, data2 := Encode(step)
	debug.Focus(step)

	if err := d.tr.Write(data1, data2); err != nil {
		return &TransportError{Step: step, Err: err}
	}
	d.mu.Lock()
	d.last = step
	d.mu.Unlock()
	return nil
}

// Position returns the last successfully commanded step, or -1 if no
// write has succeeded yet. Safe to call from the web status goroutine.
func (d *Driver) Position() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
