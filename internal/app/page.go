package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/arduino"
)

// PageID identifies each page in the application.
type PageID int

const (
	BuildPage PageID = iota
	FlashPage
	MonitorPage
	DevicesPage
	HistoryPage
	SettingsPage
)

var PageOrder = []PageID{
	BuildPage,
	FlashPage,
	MonitorPage,
	DevicesPage,
	HistoryPage,
	SettingsPage,
}

// Page is the interface every page in the application implements.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	Name() string
	ShortHelp() []key.Binding
	SetSize(width, height int)
}

// InputCapturer is an optional interface for pages with text inputs.
// When InputCaptured returns true, the app forwards all keys directly
// to the page instead of processing shortcuts like q, ?, left, etc.
type InputCapturer interface {
	InputCaptured() bool
}

// BoardSelectedMsg is broadcast to all pages when a target board is chosen.
type BoardSelectedMsg struct {
	Board arduino.BoardProfile
}

// PortSelectedMsg is broadcast to all pages when a target peripheral is
// chosen.
type PortSelectedMsg struct {
	Peripheral arduino.Peripheral
}

// PortsLoadedMsg carries the result of a peripheral scan.
type PortsLoadedMsg struct {
	Peripherals []arduino.Peripheral
	Err         error
}
