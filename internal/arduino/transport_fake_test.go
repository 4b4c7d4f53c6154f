package arduino

import "time"

type transportCall struct {
	op        string // "connect" or "disconnect"
	path      string
	baudRate  int
	exclusive bool
}

// fakeTransport records the connection lifecycle and serves a scripted
// peripheral list.
type fakeTransport struct {
	calls       []transportCall
	listCalls   int
	peripherals []Peripheral
	listErr     error
	connectErr  error
}

func (f *fakeTransport) Connect(path string, baudRate int, exclusive bool) error {
	f.calls = append(f.calls, transportCall{op: "connect", path: path, baudRate: baudRate, exclusive: exclusive})
	return f.connectErr
}

func (f *fakeTransport) Disconnect() error {
	f.calls = append(f.calls, transportCall{op: "disconnect"})
	return nil
}

func (f *fakeTransport) List() ([]Peripheral, error) {
	f.listCalls++
	return f.peripherals, f.listErr
}

// fakeClock records sleeps instead of waiting them out.
type fakeClock struct {
	slept []time.Duration
}

func (f *fakeClock) sleep(d time.Duration) {
	f.slept = append(f.slept, d)
}
