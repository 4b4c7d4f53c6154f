package arduino

// Peripheral is a serial device currently visible to the host. USBID is the
// PnP-style identifier reported by the OS; its first 21 characters
// ("USB\VID_XXXX&PID_XXXX") key the known-device table.
type Peripheral struct {
	Path  string
	USBID string
}

// UnknownDevice is returned by DeviceName for identifiers not in the table.
const UnknownDevice = "Unknown device"

const usbIDPrefixLen = 21

// deviceDirectory maps USB identifier prefixes to board names. Entries cover
// the boards the Scratch hardware extensions ship firmware for, plus the
// bootloader identities Leonardo-class boards expose after a touch reset.
var deviceDirectory = map[string]string{
	`USB\VID_2341&PID_0043`: "Arduino Uno",
	`USB\VID_2341&PID_0001`: "Arduino Uno",
	`USB\VID_2A03&PID_0043`: "Arduino Uno",
	`USB\VID_2341&PID_8036`: "Arduino Leonardo",
	`USB\VID_2341&PID_0036`: "Arduino Leonardo",
	`USB\VID_2A03&PID_8036`: "Arduino Leonardo",
	`USB\VID_2341&PID_0042`: "Arduino Mega 2560",
	`USB\VID_2341&PID_0010`: "Arduino Mega 2560",
	`USB\VID_1B4F&PID_2B74`: "Makey Makey",
	`USB\VID_1B4F&PID_2B75`: "Makey Makey",
}

// DeviceName resolves a USB identifier to a board name. Only the first 21
// characters of the identifier are significant; unknown identifiers resolve
// to UnknownDevice.
func DeviceName(usbID string) string {
	if len(usbID) > usbIDPrefixLen {
		usbID = usbID[:usbIDPrefixLen]
	}
	if name, ok := deviceDirectory[usbID]; ok {
		return name
	}
	return UnknownDevice
}

// ResolvePeripheral scans peripherals for one whose identifier resolves to
// target and returns its path. The whole list is always scanned; when several
// entries match, the last one wins. Returns *DeviceNotFoundError when the
// list is empty or nothing matches.
func ResolvePeripheral(peripherals []Peripheral, target string) (string, error) {
	path := ""
	for _, p := range peripherals {
		if DeviceName(p.USBID) == target {
			path = p.Path
		}
	}
	if path == "" {
		return "", &DeviceNotFoundError{Device: target}
	}
	return path, nil
}
