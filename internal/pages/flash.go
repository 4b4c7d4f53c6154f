package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/store"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

type flashState int

const (
	flashStateIdle flashState = iota
	flashStateRunning
	flashStateDone
)

type FlashPage struct {
	state    flashState
	output   strings.Builder
	viewport viewport.Model

	orch    Orchestrator
	store   *store.Store
	monitor serialSession

	board    arduino.BoardProfile
	hasBoard bool
	port     arduino.Peripheral
	hasPort  bool

	flashStart time.Time
	realtime   bool

	width, height int
	message       string
}

func NewFlashPage(orch Orchestrator, s *store.Store, monitor serialSession) *FlashPage {
	return &FlashPage{
		viewport: viewport.New(0, 0),
		orch:     orch,
		store:    s,
		monitor:  monitor,
	}
}

func (p *FlashPage) Init() tea.Cmd { return nil }

func (p *FlashPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.BoardSelectedMsg:
		p.board = msg.Board
		p.hasBoard = true
		return p, nil

	case app.PortSelectedMsg:
		p.port = msg.Peripheral
		p.hasPort = true
		return p, nil

	case FlashDoneMsg:
		if p.state != flashStateRunning {
			return p, nil
		}
		p.state = flashStateDone
		p.output.WriteString(msg.Transcript)
		p.output.WriteString(fmt.Sprintf("\n%s %s in %s\n", ui.OutcomeBadge(msg.Err), flashStatus(msg.Err), msg.Duration.Round(time.Millisecond)))
		p.viewport.SetContent(p.output.String())
		p.viewport.GotoBottom()

		if p.store != nil {
			rec := store.FlashRecord{
				Board:     p.board.FQBN,
				Port:      p.port.Path,
				Realtime:  msg.Realtime,
				Timestamp: p.flashStart,
				Success:   msg.Err == nil,
				Duration:  msg.Duration.String(),
			}
			if msg.Err != nil {
				rec.Error = msg.Err.Error()
			}
			p.store.AddFlash(rec)
		}
		return p, nil

	case tea.KeyMsg:
		if p.state == flashStateRunning {
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
		switch msg.String() {
		case "ctrl+f", "enter":
			return p, p.startFlash(false)
		case "ctrl+r":
			return p, p.startFlash(true)
		case "esc":
			if p.state == flashStateDone {
				p.state = flashStateIdle
				p.output.Reset()
				p.viewport.SetContent("")
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func flashStatus(err error) string {
	if err == nil {
		return "Flash succeeded"
	}
	return fmt.Sprintf("Flash failed: %v", err)
}

func (p *FlashPage) startFlash(realtime bool) tea.Cmd {
	if !p.hasBoard {
		p.message = "Select a board first ([b] in the sidebar)"
		return nil
	}
	if !p.hasPort {
		p.message = "Select a port first ([p] in the sidebar)"
		return nil
	}

	// The flasher needs exclusive access to the port.
	if p.monitor != nil && p.monitor.Connected() {
		p.monitor.Disconnect()
	}

	p.state = flashStateRunning
	p.output.Reset()
	p.flashStart = time.Now()
	p.realtime = realtime
	p.message = ""

	what := "sketch"
	if realtime {
		what = "realtime firmware"
	}
	p.output.WriteString(fmt.Sprintf("Flashing %s to %s on %s...\n\n", what, p.board.Name, p.port.Path))
	p.viewport.SetContent(p.output.String())

	if realtime {
		return p.orch.FlashRealtime(p.board, p.port)
	}
	return p.orch.Flash(p.board, p.port)
}

func (p *FlashPage) View() string {
	headerHeight := 6
	outputHeight := p.height - headerHeight - 1
	if outputHeight < 5 {
		outputHeight = 5
	}

	var b strings.Builder
	b.WriteString(ui.Title("Flash"))
	b.WriteString("\n")

	board := ui.DimStyle.Render("(none, press [b])")
	if p.hasBoard {
		board = p.board.Name + " " + ui.DimStyle.Render(p.board.FQBN)
	}
	b.WriteString("Board  " + board + "\n")

	port := ui.DimStyle.Render("(none, press [p])")
	if p.hasPort {
		port = p.port.Path + " " + ui.DimStyle.Render(arduino.DeviceName(p.port.USBID))
	}
	b.WriteString("Port   " + port + "\n")

	if p.message != "" {
		b.WriteString("\n" + p.message + "\n")
	}
	b.WriteString("\n" + ui.DimStyle.Render("ctrl+f: flash build  ctrl+r: flash realtime firmware"))

	output := p.viewOutput(p.width, outputHeight)
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), output)
}

func (p *FlashPage) viewOutput(width int, height int) string {
	contentWidth := width - 3
	contentHeight := height - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	if contentHeight < 3 {
		contentHeight = 3
	}
	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderForeground(ui.Surface).
		PaddingLeft(1)

	if p.output.Len() == 0 {
		return style.Render(ui.DimStyle.Render("Flash output will appear here..."))
	}
	return style.Render(p.viewport.View())
}

func (p *FlashPage) Name() string { return "Flash" }

func (p *FlashPage) ShortHelp() []key.Binding {
	if p.state == flashStateRunning {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "flash")),
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "realtime fw")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	}
}

func (p *FlashPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
