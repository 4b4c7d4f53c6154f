package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

type DevicesPage struct {
	list func() ([]arduino.Peripheral, error)

	peripherals []arduino.Peripheral
	cursor      int
	scanning    bool
	scanErr     error

	width, height int
}

func NewDevicesPage(list func() ([]arduino.Peripheral, error)) *DevicesPage {
	return &DevicesPage{list: list}
}

func (p *DevicesPage) Init() tea.Cmd {
	return p.scan()
}

func (p *DevicesPage) scan() tea.Cmd {
	p.scanning = true
	list := p.list
	return func() tea.Msg {
		peripherals, err := list()
		return app.PortsLoadedMsg{Peripherals: peripherals, Err: err}
	}
}

func (p *DevicesPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortsLoadedMsg:
		p.scanning = false
		p.scanErr = msg.Err
		if msg.Err == nil {
			p.peripherals = msg.Peripherals
		}
		if p.cursor >= len(p.peripherals) {
			p.cursor = len(p.peripherals) - 1
		}
		if p.cursor < 0 {
			p.cursor = 0
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return p, p.scan()
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down":
			if p.cursor < len(p.peripherals)-1 {
				p.cursor++
			}
		case "enter":
			if p.cursor < len(p.peripherals) {
				selected := p.peripherals[p.cursor]
				return p, func() tea.Msg {
					return app.PortSelectedMsg{Peripheral: selected}
				}
			}
		}
	}
	return p, nil
}

func (p *DevicesPage) View() string {
	var b strings.Builder
	b.WriteString(ui.Title("Devices"))
	b.WriteString("\n")

	switch {
	case p.scanning:
		b.WriteString("Scanning serial ports...\n")
	case p.scanErr != nil:
		b.WriteString(fmt.Sprintf("Scan failed: %v\n", p.scanErr))
	case len(p.peripherals) == 0:
		b.WriteString(ui.DimStyle.Render("No serial devices attached.") + "\n")
	default:
		for i, peripheral := range p.peripherals {
			cursor := "  "
			name := arduino.DeviceName(peripheral.USBID)
			line := fmt.Sprintf("%-24s %-20s %s", peripheral.Path, name, ui.DimStyle.Render(peripheral.USBID))
			if i == p.cursor {
				cursor = ui.BoldStyle.Render("> ")
			}
			b.WriteString(cursor + line + "\n")
		}
	}

	b.WriteString("\n" + ui.DimStyle.Render("r: rescan  enter: use as flash/monitor port"))
	return b.String()
}

func (p *DevicesPage) Name() string { return "Devices" }

func (p *DevicesPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select port")),
	}
}

func (p *DevicesPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
