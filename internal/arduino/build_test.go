package arduino

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStubTool installs a shell script at path so orchestrators can run it
// in place of the real tool.
func writeStubTool(t *testing.T, path, script string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func unoBoard(t *testing.T) BoardProfile {
	t.Helper()
	board, ok := LookupBoard("arduino:avr:uno")
	if !ok {
		t.Fatal("uno profile missing")
	}
	return board
}

func TestBuildWritesSketchAndSucceeds(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	writeStubTool(t, ws.BuilderPath, "exit 0")

	var events []OutputEvent
	b := NewBuilder(ws, unoBoard(t), func(ev OutputEvent) { events = append(events, ev) })

	source := []byte("void setup() {}\nvoid loop() {}\n")
	if err := b.Build(context.Background(), source); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	written, err := os.ReadFile(ws.SketchPath)
	if err != nil {
		t.Fatalf("sketch not written: %v", err)
	}
	if string(written) != string(source) {
		t.Errorf("sketch content mismatch: %q", written)
	}
	for _, dir := range []string{ws.BuildDir, ws.CacheDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}
}

func TestBuildExitCodeMapping(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{1, ErrBuildFailed},
		{2, ErrSketchNotFound},
		{3, ErrInvalidArguments},
		{4, ErrUnknownPreference},
	}
	for _, tc := range cases {
		ws := NewWorkspace(t.TempDir())
		writeStubTool(t, ws.BuilderPath, fmt.Sprintf("exit %d", tc.code))
		b := NewBuilder(ws, unoBoard(t), nil)

		err := b.Build(context.Background(), []byte("void loop() {}"))
		if !errors.Is(err, tc.want) {
			t.Errorf("exit code %d: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestBuildSucceedsRegardlessOfStreamContent(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	writeStubTool(t, ws.BuilderPath, `echo "error: looks scary" >&2; exit 0`)
	var events []OutputEvent
	b := NewBuilder(ws, unoBoard(t), func(ev OutputEvent) { events = append(events, ev) })

	if err := b.Build(context.Background(), []byte("void loop() {}")); err != nil {
		t.Fatalf("exit code 0 must succeed regardless of output, got %v", err)
	}
	found := false
	for _, ev := range events {
		if ev.Kind == EventError {
			found = true
		}
	}
	if !found {
		t.Error("expected stderr chunk to be classified as error and still forwarded")
	}
}

func TestBuildUnrecognizedExitCode(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	writeStubTool(t, ws.BuilderPath, "exit 7")
	b := NewBuilder(ws, unoBoard(t), nil)

	err := b.Build(context.Background(), []byte("void loop() {}"))
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitCodeError, got %v", err)
	}
	if exitErr.Code != 7 {
		t.Errorf("expected code 7, got %d", exitErr.Code)
	}
}

func TestBuildMissingToolSurfacesSpawnError(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	b := NewBuilder(ws, unoBoard(t), nil)

	err := b.Build(context.Background(), []byte("void loop() {}"))
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected SpawnError for missing binary, got %v", err)
	}
}

func TestBuildArgsIncludeExtLibrariesAfterBuiltIn(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root)
	argsFile := filepath.Join(root, "args.txt")
	writeStubTool(t, ws.BuilderPath, fmt.Sprintf(`printf '%%s\n' "$@" > %s`, argsFile))

	// Without the extensions directory the flag must be absent.
	b := NewBuilder(ws, unoBoard(t), nil)
	if err := b.Build(context.Background(), []byte("void loop() {}")); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if a == "-libraries" {
			t.Errorf("expected no -libraries flag without extensions dir, got:\n%s", data)
		}
	}

	// With it present it follows the built-in libraries pair directly.
	if err := os.MkdirAll(ws.ExtLibrariesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(context.Background(), []byte("void loop() {}")); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	data, err = os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	idx := -1
	for i, a := range args {
		if a == "-built-in-libraries" {
			idx = i
		}
	}
	if idx == -1 || idx+3 >= len(args) {
		t.Fatalf("unexpected argument shape: %v", args)
	}
	if args[idx+1] != ws.LibrariesDir || args[idx+2] != "-libraries" || args[idx+3] != ws.ExtLibrariesDir {
		t.Errorf("expected extensions libraries right after built-in, got %v", args[idx:idx+4])
	}
}
