package pages

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/serial"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

// BuildDoneMsg is delivered when a compile finishes. Transcript holds the
// styled tool output.
type BuildDoneMsg struct {
	Transcript string
	Duration   time.Duration
	Err        error
}

// FlashDoneMsg is delivered when an upload finishes.
type FlashDoneMsg struct {
	Transcript string
	Duration   time.Duration
	Realtime   bool
	Err        error
}

// Orchestrator runs compile and upload operations as bubbletea commands so
// pages never block the UI goroutine.
type Orchestrator interface {
	Build(board arduino.BoardProfile, source []byte) tea.Cmd
	Flash(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd
	FlashRealtime(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd
}

// Toolchain is the production Orchestrator. It drives arduino-builder and
// avrdude inside a fixed workspace and opens real serial ports for the
// bootloader handshake.
type Toolchain struct {
	ws *arduino.Workspace
}

func NewToolchain(ws *arduino.Workspace) *Toolchain {
	return &Toolchain{ws: ws}
}

func (t *Toolchain) Build(board arduino.BoardProfile, source []byte) tea.Cmd {
	ws := t.ws
	return func() tea.Msg {
		renderer := ui.NewEventRenderer()
		builder := arduino.NewBuilder(ws, board, renderer.Append)
		start := time.Now()
		err := builder.Build(context.Background(), source)
		return BuildDoneMsg{
			Transcript: renderer.String(),
			Duration:   time.Since(start),
			Err:        err,
		}
	}
}

func (t *Toolchain) Flash(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd {
	return t.flash(board, port, false)
}

func (t *Toolchain) FlashRealtime(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd {
	return t.flash(board, port, true)
}

func (t *Toolchain) flash(board arduino.BoardProfile, port arduino.Peripheral, realtime bool) tea.Cmd {
	ws := t.ws
	return func() tea.Msg {
		renderer := ui.NewEventRenderer()
		flasher := arduino.NewFlasher(ws, board, port, serial.NewTransport(), renderer.Append)
		start := time.Now()
		var err error
		if realtime {
			err = flasher.FlashRealtimeFirmware(context.Background())
		} else {
			err = flasher.Flash(context.Background())
		}
		return FlashDoneMsg{
			Transcript: renderer.String(),
			Duration:   time.Since(start),
			Realtime:   realtime,
			Err:        err,
		}
	}
}
