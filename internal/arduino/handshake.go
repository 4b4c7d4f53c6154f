package arduino

import "time"

// Leonardo-class boards watch for a connection opened and closed at 1200
// baud and respond by rebooting into their bootloader. The board then
// re-enumerates, usually under a different device path.
const (
	touchBaudRate = 1200

	// Fixed settle delays. These are timing workarounds, not event waits:
	// the open must register with the OS before the close, and the board
	// needs time to reboot and re-enumerate before the rescan.
	touchOpenSettle  = 100 * time.Millisecond
	touchCloseSettle = 1000 * time.Millisecond
)

// touchReset performs the 1200-baud open/close handshake on path, waits for
// the board to come back as its bootloader identity, and returns the device
// path it reappeared under. The result is only valid for the flash operation
// that requested it; paths are re-resolved on every flash.
func (f *Flasher) touchReset(path, device string) (string, error) {
	if err := f.transport.Connect(path, touchBaudRate, false); err != nil {
		return "", err
	}
	f.sleep(touchOpenSettle)
	if err := f.transport.Disconnect(); err != nil {
		return "", err
	}
	f.sleep(touchCloseSettle)

	peripherals, err := f.transport.List()
	if err != nil {
		return "", &DeviceNotFoundError{Device: device}
	}
	return ResolvePeripheral(peripherals, device)
}
