package arduino

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func leonardoBoard(t *testing.T) BoardProfile {
	t.Helper()
	board, ok := LookupBoard("arduino:avr:leonardo")
	if !ok {
		t.Fatal("leonardo profile missing")
	}
	return board
}

func newTestFlasher(t *testing.T, board BoardProfile, transport *fakeTransport) (*Flasher, *Workspace, *fakeClock, string) {
	t.Helper()
	root := t.TempDir()
	ws := NewWorkspace(root)
	argsFile := filepath.Join(root, "avrdude-args.txt")
	writeStubTool(t, ws.AvrdudePath, fmt.Sprintf(`printf '%%s\n' "$@" > %s`, argsFile))

	port := Peripheral{Path: "/dev/ttyACM0", USBID: `USB\VID_2341&PID_0043`}
	f := NewFlasher(ws, board, port, transport, nil)
	clock := &fakeClock{}
	f.sleep = clock.sleep
	return f, ws, clock, argsFile
}

func flashArgsWritten(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("avrdude was not invoked: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestFlashRegularBoardSkipsHandshake(t *testing.T) {
	transport := &fakeTransport{}
	f, _, clock, argsFile := newTestFlasher(t, unoBoard(t), transport)

	if err := f.Flash(context.Background()); err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	if len(transport.calls) != 0 || transport.listCalls != 0 {
		t.Errorf("expected no transport activity for a regular board, got %v", transport.calls)
	}
	if len(clock.slept) != 0 {
		t.Errorf("expected no settle delays for a regular board, got %v", clock.slept)
	}

	args := flashArgsWritten(t, argsFile)
	if !contains(args, "-P/dev/ttyACM0") {
		t.Errorf("expected original peripheral path as target, got %v", args)
	}
}

func TestFlashTouchResetBoardRunsHandshake(t *testing.T) {
	transport := &fakeTransport{
		peripherals: []Peripheral{
			{Path: "/dev/ttyACM0", USBID: `USB\VID_2341&PID_0043`},
			{Path: "/dev/ttyACM3", USBID: `USB\VID_2341&PID_0036`},
		},
	}
	f, _, clock, argsFile := newTestFlasher(t, leonardoBoard(t), transport)

	if err := f.Flash(context.Background()); err != nil {
		t.Fatalf("flash failed: %v", err)
	}

	// Exactly one open/close cycle at the touch baud rate.
	if len(transport.calls) != 2 {
		t.Fatalf("expected connect+disconnect, got %v", transport.calls)
	}
	if transport.calls[0].op != "connect" || transport.calls[0].baudRate != 1200 {
		t.Errorf("expected connect at 1200 baud, got %+v", transport.calls[0])
	}
	if transport.calls[0].path != "/dev/ttyACM0" {
		t.Errorf("expected touch on the supplied path, got %+v", transport.calls[0])
	}
	if transport.calls[1].op != "disconnect" {
		t.Errorf("expected disconnect after connect, got %+v", transport.calls[1])
	}
	if transport.listCalls != 1 {
		t.Errorf("expected a single rescan, got %d", transport.listCalls)
	}

	// Close-to-rescan delay is at least one second, plus the post-success
	// settle delay.
	if len(clock.slept) != 3 {
		t.Fatalf("expected open settle, close settle and post-flash settle, got %v", clock.slept)
	}
	if clock.slept[0] != 100*time.Millisecond {
		t.Errorf("expected 100ms open settle, got %v", clock.slept[0])
	}
	if clock.slept[1] < time.Second {
		t.Errorf("expected >=1s close settle before rescan, got %v", clock.slept[1])
	}
	if clock.slept[2] < time.Second {
		t.Errorf("expected >=1s settle after success, got %v", clock.slept[2])
	}

	// The rediscovered bootloader path replaces the supplied one.
	args := flashArgsWritten(t, argsFile)
	if !contains(args, "-P/dev/ttyACM3") {
		t.Errorf("expected rediscovered path as target, got %v", args)
	}
}

func TestFlashHandshakeFailureAborts(t *testing.T) {
	transport := &fakeTransport{} // rescan sees nothing
	f, _, _, argsFile := newTestFlasher(t, leonardoBoard(t), transport)

	err := f.Flash(context.Background())
	var devErr *DeviceNotFoundError
	if !errors.As(err, &devErr) {
		t.Fatalf("expected DeviceNotFoundError, got %v", err)
	}
	if devErr.Device != "Arduino Leonardo" {
		t.Errorf("expected error naming the expected board, got %q", devErr.Device)
	}
	if _, err := os.Stat(argsFile); !os.IsNotExist(err) {
		t.Error("expected avrdude not to run after a failed handshake")
	}
}

func TestFlashArgsShape(t *testing.T) {
	transport := &fakeTransport{}
	f, ws, _, argsFile := newTestFlasher(t, unoBoard(t), transport)

	if err := f.Flash(context.Background()); err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	args := flashArgsWritten(t, argsFile)
	want := []string{
		"-C" + ws.AvrdudeConfPath,
		"-v",
		"-patmega328p",
		"-carduino",
		"-P/dev/ttyACM0",
		"-b115200",
		"-D",
		"-Uflash:w:" + ws.ArtifactPath + ":i",
	}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %v", len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %q, got %q", i, want[i], args[i])
		}
	}
}

func TestFlashRealtimeFirmwareUsesStaticTable(t *testing.T) {
	transport := &fakeTransport{}
	f, ws, _, argsFile := newTestFlasher(t, unoBoard(t), transport)

	if err := f.FlashRealtimeFirmware(context.Background()); err != nil {
		t.Fatalf("flash failed: %v", err)
	}
	args := flashArgsWritten(t, argsFile)
	want := "-Uflash:w:" + ws.FirmwarePath("arduino-uno.hex") + ":i"
	if !contains(args, want) {
		t.Errorf("expected realtime firmware image %q, got %v", want, args)
	}
	stale := "-Uflash:w:" + ws.ArtifactPath + ":i"
	if contains(args, stale) {
		t.Error("realtime flash must never fall back to the built artifact")
	}
}

func TestFlashExitCodeMapping(t *testing.T) {
	transport := &fakeTransport{}
	f, ws, _, _ := newTestFlasher(t, unoBoard(t), transport)

	writeStubTool(t, ws.AvrdudePath, "exit 1")
	if err := f.Flash(context.Background()); !errors.Is(err, ErrFlashFailed) {
		t.Errorf("exit code 1: expected ErrFlashFailed, got %v", err)
	}

	writeStubTool(t, ws.AvrdudePath, "exit 9")
	err := f.Flash(context.Background())
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitCodeError, got %v", err)
	}
	if exitErr.Code != 9 {
		t.Errorf("expected code 9, got %d", exitErr.Code)
	}
}

func TestFlashResolvesTargetFreshEachCall(t *testing.T) {
	transport := &fakeTransport{
		peripherals: []Peripheral{
			{Path: "/dev/ttyACM3", USBID: `USB\VID_2341&PID_0036`},
		},
	}
	f, _, _, argsFile := newTestFlasher(t, leonardoBoard(t), transport)

	if err := f.Flash(context.Background()); err != nil {
		t.Fatalf("first flash failed: %v", err)
	}

	// The board comes back somewhere else the second time; the stale path
	// must not leak into the new operation.
	transport.peripherals = []Peripheral{
		{Path: "/dev/ttyACM5", USBID: `USB\VID_2341&PID_0036`},
	}
	if err := f.Flash(context.Background()); err != nil {
		t.Fatalf("second flash failed: %v", err)
	}
	args := flashArgsWritten(t, argsFile)
	if !contains(args, "-P/dev/ttyACM5") {
		t.Errorf("expected fresh resolution on second flash, got %v", args)
	}
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
