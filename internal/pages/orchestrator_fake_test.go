package pages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/arduino"
)

type buildCall struct {
	board  arduino.BoardProfile
	source []byte
}

type flashCall struct {
	board    arduino.BoardProfile
	port     arduino.Peripheral
	realtime bool
}

// fakeOrchestrator records operations and replies with a scripted message.
type fakeOrchestrator struct {
	nextMsg tea.Msg

	buildCalls []buildCall
	flashCalls []flashCall
}

func (f *fakeOrchestrator) cmd() tea.Cmd {
	return func() tea.Msg {
		return f.nextMsg
	}
}

func (f *fakeOrchestrator) Build(board arduino.BoardProfile, source []byte) tea.Cmd {
	copied := append([]byte(nil), source...)
	f.buildCalls = append(f.buildCalls, buildCall{board: board, source: copied})
	return f.cmd()
}

func (f *fakeOrchestrator) Flash(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd {
	f.flashCalls = append(f.flashCalls, flashCall{board: board, port: port})
	return f.cmd()
}

func (f *fakeOrchestrator) FlashRealtime(board arduino.BoardProfile, port arduino.Peripheral) tea.Cmd {
	f.flashCalls = append(f.flashCalls, flashCall{board: board, port: port, realtime: true})
	return f.cmd()
}
