package arduino

import (
	"errors"
	"testing"
)

func TestDeviceNameKnownAndUnknown(t *testing.T) {
	if name := DeviceName(`USB\VID_2341&PID_0043`); name != "Arduino Uno" {
		t.Errorf("expected Arduino Uno, got %s", name)
	}
	if name := DeviceName(`USB\VID_FFFF&PID_FFFF`); name != UnknownDevice {
		t.Errorf("expected %s, got %s", UnknownDevice, name)
	}
}

func TestDeviceNameUsesPrefixOnly(t *testing.T) {
	// OS identifiers carry an instance suffix past the VID/PID pair.
	full := `USB\VID_2341&PID_8036&MI_00\7&2bf3c2&0&0000`
	if name := DeviceName(full); name != "Arduino Leonardo" {
		t.Errorf("expected Arduino Leonardo from prefixed identifier, got %s", name)
	}
}

func TestResolvePeripheralNoMatch(t *testing.T) {
	var devErr *DeviceNotFoundError

	_, err := ResolvePeripheral(nil, "Arduino Leonardo")
	if !errors.As(err, &devErr) {
		t.Fatalf("expected DeviceNotFoundError for empty list, got %v", err)
	}

	peripherals := []Peripheral{
		{Path: "/dev/ttyUSB0", USBID: `USB\VID_2341&PID_0043`},
	}
	_, err = ResolvePeripheral(peripherals, "Arduino Leonardo")
	if !errors.As(err, &devErr) {
		t.Fatalf("expected DeviceNotFoundError when nothing matches, got %v", err)
	}
	if devErr.Device != "Arduino Leonardo" {
		t.Errorf("expected error to name the expected board, got %q", devErr.Device)
	}
}

func TestResolvePeripheralSingleMatch(t *testing.T) {
	peripherals := []Peripheral{
		{Path: "/dev/ttyACM0", USBID: `USB\VID_2341&PID_0043`},
		{Path: "/dev/ttyACM1", USBID: `USB\VID_2341&PID_8036`},
	}
	path, err := ResolvePeripheral(peripherals, "Arduino Leonardo")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if path != "/dev/ttyACM1" {
		t.Errorf("expected /dev/ttyACM1, got %s", path)
	}
}

func TestResolvePeripheralLastMatchWins(t *testing.T) {
	peripherals := []Peripheral{
		{Path: "/dev/ttyACM1", USBID: `USB\VID_2341&PID_8036`},
		{Path: "/dev/ttyACM0", USBID: `USB\VID_2341&PID_0043`},
		{Path: "/dev/ttyACM2", USBID: `USB\VID_2341&PID_8036`},
	}
	path, err := ResolvePeripheral(peripherals, "Arduino Leonardo")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if path != "/dev/ttyACM2" {
		t.Errorf("expected later duplicate to win, got %s", path)
	}
}
