package arduino

// BoardProfile identifies a target board and the parameters avrdude needs to
// program it. Profiles are immutable for the lifetime of an orchestrator.
type BoardProfile struct {
	FQBN       string // fully-qualified board name, e.g. "arduino:avr:uno"
	Name       string // display name, matches the device directory entry
	Partno     string // avrdude -p
	Programmer string // avrdude -c
	BaudRate   int    // avrdude -b
}

var boardProfiles = []BoardProfile{
	{FQBN: "arduino:avr:uno", Name: "Arduino Uno", Partno: "atmega328p", Programmer: "arduino", BaudRate: 115200},
	{FQBN: "arduino:avr:nano:cpu=atmega328", Name: "Arduino Nano", Partno: "atmega328p", Programmer: "arduino", BaudRate: 57600},
	{FQBN: "arduino:avr:leonardo", Name: "Arduino Leonardo", Partno: "atmega32u4", Programmer: "avr109", BaudRate: 57600},
	{FQBN: "arduino:avr:mega:cpu=atmega2560", Name: "Arduino Mega 2560", Partno: "atmega2560", Programmer: "wiring", BaudRate: 115200},
	{FQBN: "arduino:avr:makeymakey", Name: "Makey Makey", Partno: "atmega32u4", Programmer: "avr109", BaudRate: 57600},
}

// touchResetBoards maps the fqbn of boards that require the 1200-baud touch
// reset to the device name they present while in their bootloader.
var touchResetBoards = map[string]string{
	"arduino:avr:leonardo":   "Arduino Leonardo",
	"arduino:avr:makeymakey": "Makey Makey",
}

// realtimeFirmware maps fqbn to the prebuilt realtime-mode firmware image
// shipped under the workspace firmware directory.
var realtimeFirmware = map[string]string{
	"arduino:avr:uno":                 "arduino-uno.hex",
	"arduino:avr:nano:cpu=atmega328":  "arduino-nano.hex",
	"arduino:avr:leonardo":            "arduino-leonardo.hex",
	"arduino:avr:mega:cpu=atmega2560": "arduino-mega-2560.hex",
	"arduino:avr:makeymakey":          "makey-makey.hex",
}

// Boards returns the supported board profiles.
func Boards() []BoardProfile {
	out := make([]BoardProfile, len(boardProfiles))
	copy(out, boardProfiles)
	return out
}

// LookupBoard finds the profile for an fqbn.
func LookupBoard(fqbn string) (BoardProfile, bool) {
	for _, b := range boardProfiles {
		if b.FQBN == fqbn {
			return b, true
		}
	}
	return BoardProfile{}, false
}

// touchResetDevice reports the bootloader device name for boards that need a
// touch reset before flashing, and whether the board is one of them.
func touchResetDevice(fqbn string) (string, bool) {
	name, ok := touchResetBoards[fqbn]
	return name, ok
}
