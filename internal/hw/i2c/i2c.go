package i2c

import (
	"sync"

	"github.com/cjeanneret/FocusGo/internal/debug"
)

// Transport defines the abstract interface for the two-byte register
// writes the lens VCM understands. This allows plugging in the real
// Jetson I²C bus or a mock for development on PC.
type Transport interface {
	Write(data1, data2 byte) error
	Close() error
}

// MockTransport is a test implementation that logs and records writes.
// Used for development on PC or testing.
type MockTransport struct {
	mu     sync.Mutex
	writes [][2]byte
}

// New creates a transport based on the chosen mode.
// If mock is true, returns a MockTransport (for dev/test).
// If mock is false, returns a real bus device (for Jetson/Raspberry Pi).
func New(mock bool, bus string, addr uint16) (Transport, error) {
	if mock {
		debug.Info("Using MOCK I2C transport (development mode)")
		return &MockTransport{}, nil
	}
	return NewDevTransport(bus, addr)
}

func (m *MockTransport) Write(data1, data2 byte) error {
	debug.I2C("mock", 0, data1, data2)
	m.mu.Lock()
	m.writes = append(m.writes, [2]byte{data1, data2})
	m.mu.Unlock()
	return nil
}

// Writes returns a copy of all recorded writes.
func (m *MockTransport) Writes() [][2]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][2]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

func (m *MockTransport) Close() error {
	debug.Trace("I2C Close (mock)")
	return nil
}
