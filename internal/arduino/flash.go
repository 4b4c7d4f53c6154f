package arduino

import (
	"context"
	"fmt"
	"time"
)

// Flasher programs a firmware image onto an attached board with the external
// avrdude tool, running the bootloader touch-reset handshake first for
// boards that need it. One flash is in flight per Flasher at a time.
type Flasher struct {
	ws        *Workspace
	board     BoardProfile
	port      Peripheral
	transport Transport
	sink      Sink
	sleep     func(time.Duration)
}

// NewFlasher creates a flasher targeting the given peripheral.
func NewFlasher(ws *Workspace, board BoardProfile, port Peripheral, transport Transport, sink Sink) *Flasher {
	return &Flasher{
		ws:        ws,
		board:     board,
		port:      port,
		transport: transport,
		sink:      sink,
		sleep:     time.Sleep,
	}
}

// Flash programs the artifact produced by the most recent build.
func (f *Flasher) Flash(ctx context.Context) error {
	return f.FlashFirmware(ctx, f.ws.ArtifactPath)
}

// FlashRealtimeFirmware programs the prebuilt realtime-mode firmware for the
// board instead of the built artifact.
func (f *Flasher) FlashRealtimeFirmware(ctx context.Context) error {
	name, ok := realtimeFirmware[f.board.FQBN]
	if !ok {
		return fmt.Errorf("no realtime firmware for board %s", f.board.FQBN)
	}
	return f.FlashFirmware(ctx, f.ws.FirmwarePath(name))
}

// FlashFirmware programs an explicit firmware image. The target device path
// is resolved fresh on every call: for touch-reset boards the handshake runs
// first and its rediscovered path replaces the supplied one; a handshake
// failure aborts the whole operation.
func (f *Flasher) FlashFirmware(ctx context.Context, firmware string) error {
	target := f.port.Path
	device, needsReset := touchResetDevice(f.board.FQBN)
	if needsReset {
		resolved, err := f.touchReset(target, device)
		if err != nil {
			return err
		}
		target = resolved
	}

	code, err := runTool(ctx, f.ws.AvrdudePath, f.flashArgs(target, firmware), FlashOut, FlashErr, f.sink)
	if err != nil {
		return err
	}
	if outcome := flashOutcome(code); outcome != nil {
		return outcome
	}

	// Touch-reset boards leave the bootloader after a successful write and
	// re-enumerate their USB identity; give the OS time to settle before
	// the caller reopens the port.
	if needsReset {
		f.sleep(touchCloseSettle)
	}
	return nil
}

func (f *Flasher) flashArgs(target, firmware string) []string {
	return []string{
		"-C" + f.ws.AvrdudeConfPath,
		"-v",
		"-p" + f.board.Partno,
		"-c" + f.board.Programmer,
		"-P" + target,
		"-b" + fmt.Sprint(f.board.BaudRate),
		"-D",
		"-Uflash:w:" + firmware + ":i",
	}
}
