package arduino

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspaceLayout(t *testing.T) {
	ws := NewWorkspace("/srv/scratch")

	checks := map[string]string{
		ws.SketchPath:      "/srv/scratch/project/arduino.ino",
		ws.BuildDir:        "/srv/scratch/project/build",
		ws.CacheDir:        "/srv/scratch/project/cache",
		ws.ArtifactPath:    "/srv/scratch/project/build/arduino.ino.hex",
		ws.BuilderPath:     "/srv/scratch/Arduino/arduino-builder",
		ws.AvrdudePath:     "/srv/scratch/Arduino/hardware/tools/avr/bin/avrdude",
		ws.AvrdudeConfPath: "/srv/scratch/Arduino/hardware/tools/avr/etc/avrdude.conf",
	}
	for got, want := range checks {
		if got != filepath.FromSlash(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

func TestEnsureDirs(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{ws.BuildDir, ws.CacheDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}
}

func TestHasExtLibraries(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	if ws.HasExtLibraries() {
		t.Error("expected no extensions libraries in a fresh workspace")
	}
	if err := os.MkdirAll(ws.ExtLibrariesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if !ws.HasExtLibraries() {
		t.Error("expected extensions libraries to be detected")
	}
}
