package arduino

// Transport is the serial capability the flasher drives for the touch-reset
// handshake. Implementations own exactly one connection at a time.
//
// List may return a nil or empty slice when no devices are visible; callers
// treat that as "nothing attached", not as an error.
type Transport interface {
	Connect(path string, baudRate int, exclusive bool) error
	Disconnect() error
	List() ([]Peripheral, error)
}
