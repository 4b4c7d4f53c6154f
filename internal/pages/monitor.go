package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/config"
	"github.com/ScratchHW/scratch-link/internal/store"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

// serialSession is the part of serial.Monitor the page needs.
type serialSession interface {
	Connect(p arduino.Peripheral, baudRate int) error
	Disconnect()
	Write(data []byte) error
	DataChan() <-chan string
	Connected() bool
}

// serialDataMsg carries one chunk read from the serial port.
type serialDataMsg struct {
	data string
}

type MonitorPage struct {
	monitor serialSession
	cfg     *config.Config
	store   *store.Store

	viewport viewport.Model
	input    textinput.Model
	output   strings.Builder

	port      arduino.Peripheral
	hasPort   bool
	listening bool

	width, height int
	message       string
}

func NewMonitorPage(monitor serialSession, cfg *config.Config, s *store.Store) *MonitorPage {
	input := textinput.New()
	input.Placeholder = "send a line..."
	input.CharLimit = 256
	input.Prompt = "> "

	return &MonitorPage{
		monitor:  monitor,
		cfg:      cfg,
		store:    s,
		viewport: viewport.New(0, 0),
		input:    input,
	}
}

func (p *MonitorPage) Init() tea.Cmd { return nil }

// waitForData blocks on the monitor's data channel. Exactly one of these
// runs at a time; each delivered message schedules the next.
func (p *MonitorPage) waitForData() tea.Cmd {
	ch := p.monitor.DataChan()
	return func() tea.Msg {
		return serialDataMsg{data: <-ch}
	}
}

func (p *MonitorPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortSelectedMsg:
		p.port = msg.Peripheral
		p.hasPort = true
		return p, nil

	case serialDataMsg:
		p.output.WriteString(msg.data)
		p.viewport.SetContent(p.output.String())
		p.viewport.GotoBottom()
		return p, p.waitForData()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *MonitorPage) handleKey(msg tea.KeyMsg) (app.Page, tea.Cmd) {
	if p.input.Focused() {
		switch msg.String() {
		case "enter":
			line := p.input.Value()
			if line != "" {
				if err := p.monitor.Write([]byte(line + "\n")); err != nil {
					p.message = fmt.Sprintf("Write failed: %v", err)
				}
				p.input.SetValue("")
			}
			return p, nil
		case "esc":
			p.input.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "c":
		return p, p.connect()
	case "d":
		p.monitor.Disconnect()
		p.message = "Disconnected"
		return p, nil
	case "enter":
		if p.monitor.Connected() {
			return p, p.input.Focus()
		}
		return p, nil
	case "x":
		p.output.Reset()
		p.viewport.SetContent("")
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *MonitorPage) connect() tea.Cmd {
	if !p.hasPort {
		p.message = "Select a port first ([p] in the sidebar)"
		return nil
	}
	baud := p.cfg.SerialBaudRate
	if baud == 0 {
		baud = config.DefaultBaudRate
	}
	if err := p.monitor.Connect(p.port, baud); err != nil {
		p.message = fmt.Sprintf("Connect failed: %v", err)
		return nil
	}
	p.message = fmt.Sprintf("Connected to %s at %d baud", p.port.Path, baud)

	if p.store != nil {
		p.store.AddSerialLog(store.SerialLog{
			Port:      p.port.Path,
			BaudRate:  baud,
			Timestamp: time.Now(),
		})
	}

	if p.listening {
		return nil
	}
	p.listening = true
	return p.waitForData()
}

func (p *MonitorPage) View() string {
	headerHeight := 4
	inputHeight := 1
	outputHeight := p.height - headerHeight - inputHeight - 1
	if outputHeight < 5 {
		outputHeight = 5
	}

	var b strings.Builder
	b.WriteString(ui.Title("Monitor"))
	b.WriteString("\n")

	status := ui.DimStyle.Render("disconnected")
	if p.monitor.Connected() {
		status = ui.AccentStyle.Render(fmt.Sprintf("connected  %s", p.port.Path))
	}
	b.WriteString("Status  " + status + "\n")
	if p.message != "" {
		b.WriteString(p.message + "\n")
	}

	contentWidth := p.width - 3
	contentHeight := outputHeight - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	if contentHeight < 3 {
		contentHeight = 3
	}
	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight

	style := lipgloss.NewStyle().
		Width(p.width).
		Height(outputHeight).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderForeground(ui.Surface).
		PaddingLeft(1)

	var output string
	if p.output.Len() == 0 {
		output = style.Render(ui.DimStyle.Render("Serial data will appear here..."))
	} else {
		output = style.Render(p.viewport.View())
	}

	p.input.Width = p.width - 5
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), output, p.input.View())
}

func (p *MonitorPage) Name() string { return "Monitor" }

func (p *MonitorPage) ShortHelp() []key.Binding {
	if p.input.Focused() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop typing")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "type")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	}
}

func (p *MonitorPage) InputCaptured() bool {
	return p.input.Focused()
}

func (p *MonitorPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
