package serial

import (
	"fmt"
	"strings"
	"sync"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/ScratchHW/scratch-link/internal/arduino"
)

// Transport implements the serial capabilities the flasher needs: opening
// and closing one connection at a time and enumerating attached peripherals.
type Transport struct {
	mu   sync.Mutex
	port serial.Port
}

// NewTransport creates an unconnected transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Connect opens path at the given baud rate, closing any previous
// connection first. The exclusive flag is accepted for interface parity;
// go.bug.st/serial always opens ports exclusively on POSIX systems.
func (t *Transport) Connect(path string, baudRate int, exclusive bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		t.port.Close()
		t.port = nil
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	t.port = port
	return nil
}

// Disconnect closes the current connection if one is open.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

// List enumerates attached USB serial peripherals. Ports without USB
// metadata are skipped; callers treat an empty result as "nothing attached".
func (t *Transport) List() ([]arduino.Peripheral, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var result []arduino.Peripheral
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		result = append(result, arduino.Peripheral{
			Path:  p.Name,
			USBID: USBIdentifier(p.VID, p.PID),
		})
	}
	return result, nil
}

// USBIdentifier builds the PnP-style identifier the device directory keys
// on from a port's VID and PID.
func USBIdentifier(vid, pid string) string {
	return `USB\VID_` + strings.ToUpper(vid) + `&PID_` + strings.ToUpper(pid)
}
