package serial

import (
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/ScratchHW/scratch-link/internal/arduino"
)

// Monitor manages a serial monitoring session against one peripheral. It is
// separate from Transport on purpose: the flasher owns the port during a
// flash operation, so the monitor must be disconnected around it.
type Monitor struct {
	mu         sync.Mutex
	port       serial.Port
	peripheral arduino.Peripheral
	baudRate   int
	running    bool
	dataCh     chan string
	done       chan struct{}
}

// NewMonitor creates a disconnected serial monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		dataCh: make(chan string, 64),
	}
}

// Connect opens the peripheral at the given baud rate and starts the read
// loop. An existing session is closed first.
func (m *Monitor) Connect(p arduino.Peripheral, baudRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.disconnectLocked()
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(p.Path, mode)
	if err != nil {
		return err
	}

	m.port = port
	m.peripheral = p
	m.baudRate = baudRate
	m.running = true
	m.done = make(chan struct{})

	go m.readLoop(port, m.done)
	return nil
}

// Disconnect closes the session.
func (m *Monitor) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectLocked()
}

func (m *Monitor) disconnectLocked() {
	if !m.running {
		return
	}
	m.running = false
	if m.port != nil {
		m.port.Close()
		m.port = nil
	}
	close(m.done)
}

// Write sends data to the board.
func (m *Monitor) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil {
		return io.ErrClosedPipe
	}
	_, err := m.port.Write(data)
	return err
}

// DataChan returns the channel serial data arrives on.
func (m *Monitor) DataChan() <-chan string {
	return m.dataCh
}

// Connected reports whether a session is open.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Peripheral returns the peripheral of the current (or last) session.
func (m *Monitor) Peripheral() arduino.Peripheral {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peripheral
}

func (m *Monitor) readLoop(port serial.Port, done chan struct{}) {
	buf := make([]byte, 1024)
	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := port.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			select {
			case m.dataCh <- string(buf[:n]):
			default:
				// Drop data if the consumer falls behind.
			}
		}
	}
}
