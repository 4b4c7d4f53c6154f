package arduino

import (
	"os"
	"path/filepath"
)

// Workspace holds the fixed filesystem layout a build/flash cycle operates
// in. Paths are established once at construction; operations read and write
// only within them.
type Workspace struct {
	Root string

	// Sketch project layout.
	SketchPath   string // project/arduino.ino
	BuildDir     string // project/build
	CacheDir     string // project/cache
	ArtifactPath string // project/build/arduino.ino.hex

	// Arduino tool installation.
	BuilderPath     string // Arduino/arduino-builder
	AvrdudePath     string // Arduino/hardware/tools/avr/bin/avrdude
	AvrdudeConfPath string // Arduino/hardware/tools/avr/etc/avrdude.conf
	HardwareDir     string // Arduino/hardware
	ToolsBuilderDir string // Arduino/tools-builder
	AvrToolsDir     string // Arduino/hardware/tools/avr
	LibrariesDir    string // Arduino/libraries

	// Optional extensions libraries, consulted ahead of the built-in ones
	// when present on disk.
	ExtLibrariesDir string // libraries

	// Prebuilt realtime-mode firmware images.
	FirmwareDir string // firmwares
}

// NewWorkspace computes the layout relative to root.
func NewWorkspace(root string) *Workspace {
	arduinoDir := filepath.Join(root, "Arduino")
	projectDir := filepath.Join(root, "project")
	buildDir := filepath.Join(projectDir, "build")
	return &Workspace{
		Root:            root,
		SketchPath:      filepath.Join(projectDir, "arduino.ino"),
		BuildDir:        buildDir,
		CacheDir:        filepath.Join(projectDir, "cache"),
		ArtifactPath:    filepath.Join(buildDir, "arduino.ino.hex"),
		BuilderPath:     filepath.Join(arduinoDir, "arduino-builder"),
		AvrdudePath:     filepath.Join(arduinoDir, "hardware", "tools", "avr", "bin", "avrdude"),
		AvrdudeConfPath: filepath.Join(arduinoDir, "hardware", "tools", "avr", "etc", "avrdude.conf"),
		HardwareDir:     filepath.Join(arduinoDir, "hardware"),
		ToolsBuilderDir: filepath.Join(arduinoDir, "tools-builder"),
		AvrToolsDir:     filepath.Join(arduinoDir, "hardware", "tools", "avr"),
		LibrariesDir:    filepath.Join(arduinoDir, "libraries"),
		ExtLibrariesDir: filepath.Join(root, "libraries"),
		FirmwareDir:     filepath.Join(root, "firmwares"),
	}
}

// EnsureDirs creates the build output and cache directories.
func (w *Workspace) EnsureDirs() error {
	for _, dir := range []string{w.BuildDir, w.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// HasExtLibraries reports whether the extensions libraries directory exists.
func (w *Workspace) HasExtLibraries() bool {
	info, err := os.Stat(w.ExtLibrariesDir)
	return err == nil && info.IsDir()
}

// FirmwarePath returns the path of a prebuilt firmware image by file name.
func (w *Workspace) FirmwarePath(name string) string {
	return filepath.Join(w.FirmwareDir, name)
}
