package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/config"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

type FocusArea int

const (
	FocusSidebar FocusArea = iota
	FocusContent
)

type pickerKind int

const (
	pickerNone pickerKind = iota
	pickerPort
	pickerBoard
)

// PortLister enumerates the currently attached peripherals.
type PortLister func() ([]arduino.Peripheral, error)

type Model struct {
	pages      map[PageID]Page
	activePage PageID
	focus      FocusArea
	width      int
	height     int
	showHelp   bool

	selectedBoard arduino.BoardProfile
	boardChosen   bool
	selectedPort  arduino.Peripheral
	portChosen    bool

	picker     *Picker
	openPicker pickerKind
	lastScan   []arduino.Peripheral
	listPorts  PortLister
	cfg        *config.Config
	wsRoot     string
	saveErr    error
}

func New(pages map[PageID]Page, cfg *config.Config, wsRoot string, listPorts PortLister) Model {
	m := Model{
		pages:     pages,
		cfg:       cfg,
		wsRoot:    wsRoot,
		listPorts: listPorts,
	}
	if board, ok := arduino.LookupBoard(cfg.DefaultBoard); ok {
		m.selectedBoard = board
		m.boardChosen = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.pages {
		if cmd := p.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if m.boardChosen {
		board := m.selectedBoard
		cmds = append(cmds, func() tea.Msg { return BoardSelectedMsg{Board: board} })
	}
	return tea.Batch(cmds...)
}

// scanPorts enumerates peripherals off the UI goroutine.
func (m Model) scanPorts() tea.Cmd {
	listPorts := m.listPorts
	return func() tea.Msg {
		peripherals, err := listPorts()
		return PortsLoadedMsg{Peripherals: peripherals, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.width - sidebarWidth
		contentHeight := m.height - 2 - 1 // status bar + target bar
		for _, p := range m.pages {
			p.SetSize(contentWidth, contentHeight)
		}
		return m, nil

	case PortsLoadedMsg:
		m.lastScan = msg.Peripherals
		if m.picker != nil && m.openPicker == pickerPort && msg.Err == nil {
			var items []PickerItem
			for _, p := range msg.Peripherals {
				items = append(items, PickerItem{
					Label: p.Path,
					Value: p.Path,
					Desc:  arduino.DeviceName(p.USBID),
				})
			}
			m.picker.SetItems(items)
		}
		// Fall through to the broadcast below so the devices page sees
		// scans triggered from the sidebar too.

	case PortSelectedMsg:
		// Pages can select ports too (the devices page does), so the
		// shared state lives here rather than in the picker handler.
		m.selectedPort = msg.Peripheral
		m.portChosen = true
		m.cfg.SerialPort = msg.Peripheral.Path
		m.saveErr = config.Save(*m.cfg, m.wsRoot, false)
		// Broadcast below so every page sees the selection.

	case PickerSelectedMsg:
		kind := m.openPicker
		m.picker = nil
		m.openPicker = pickerNone
		switch kind {
		case pickerPort:
			for _, p := range m.lastScan {
				if p.Path == msg.Value {
					peripheral := p
					return m, func() tea.Msg { return PortSelectedMsg{Peripheral: peripheral} }
				}
			}
		case pickerBoard:
			if board, ok := arduino.LookupBoard(msg.Value); ok {
				m.selectedBoard = board
				m.boardChosen = true
				m.cfg.DefaultBoard = board.FQBN
				m.saveErr = config.Save(*m.cfg, m.wsRoot, false)
				return m, func() tea.Msg { return BoardSelectedMsg{Board: board} }
			}
		}
		return m, nil

	case PickerClosedMsg:
		m.picker = nil
		m.openPicker = pickerNone
		return m, nil

	case tea.KeyMsg:
		// When picker is open, forward all keys to picker
		if m.picker != nil {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}

		// When a page has an active text input, forward all keys
		// directly to the page; only ctrl+c still quits.
		if m.focus == FocusContent {
			if ic, ok := m.pages[m.activePage].(InputCapturer); ok && ic.InputCaptured() {
				if msg.String() == "ctrl+c" {
					return m, tea.Quit
				}
				page := m.pages[m.activePage]
				newPage, cmd := page.Update(msg)
				m.pages[m.activePage] = newPage
				return m, cmd
			}
		}

		// Global key handling
		switch {
		case key.Matches(msg, GlobalKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, GlobalKeys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, GlobalKeys.ToggleFocus):
			if m.focus == FocusSidebar {
				m.focus = FocusContent
				return m, nil
			}
			// When content focused, fall through to page handler
		}

		// Sidebar-only shortcuts
		if m.focus == FocusSidebar {
			if key.Matches(msg, GlobalKeys.PortPicker) {
				m.picker = NewPicker("Select Port")
				m.openPicker = pickerPort
				m.sizePicker()
				return m, m.scanPorts()
			}
			if key.Matches(msg, GlobalKeys.BoardPicker) {
				m.picker = NewPicker("Select Board")
				m.openPicker = pickerBoard
				m.sizePicker()
				var items []PickerItem
				for _, b := range arduino.Boards() {
					items = append(items, PickerItem{Label: b.Name, Value: b.FQBN, Desc: b.FQBN})
				}
				m.picker.SetItems(items)
				return m, nil
			}
		}

		// Handle arrow keys based on focus
		if m.focus == FocusSidebar {
			switch msg.String() {
			case "up":
				m.prevPage()
				return m, nil
			case "down":
				m.nextPage()
				return m, nil
			case "enter", "right":
				m.focus = FocusContent
				return m, nil
			}
		} else if m.focus == FocusContent {
			if msg.String() == "left" {
				m.focus = FocusSidebar
				return m, nil
			}
		}
	}

	// Key messages: only forward to active page when content is focused
	if _, isKey := msg.(tea.KeyMsg); isKey {
		if m.focus != FocusContent {
			return m, nil
		}
		page := m.pages[m.activePage]
		newPage, cmd := page.Update(msg)
		m.pages[m.activePage] = newPage
		return m, cmd
	}

	// Non-key messages (operation results, port scans, serial data):
	// forward to all pages so responses reach the page that asked.
	var cmds []tea.Cmd
	for id, page := range m.pages {
		newPage, cmd := page.Update(msg)
		m.pages[id] = newPage
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) sizePicker() {
	contentWidth := m.width - sidebarWidth
	contentHeight := m.height - 2 - 1
	m.picker.SetSize(contentWidth, contentHeight)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentWidth := m.width - sidebarWidth
	contentHeight := m.height - 2 - 1 // status bar + target bar

	page := m.pages[m.activePage]

	boardName := ""
	if m.boardChosen {
		boardName = m.selectedBoard.Name
	}
	portPath := ""
	if m.portChosen {
		portPath = m.selectedPort.Path
	}

	notice := ""
	if m.saveErr != nil {
		notice = "config not saved: " + m.saveErr.Error()
	}
	targetBar := renderTargetBar(boardName, portPath, notice, m.width, m.focus == FocusSidebar)
	sidebar := renderSidebar(PageOrder, m.activePage, m.pages, contentHeight, m.focus == FocusSidebar)
	content := ui.ContentStyle.
		Width(contentWidth).
		Height(contentHeight).
		Render(page.View())

	// Overlay picker on content area when open
	if m.picker != nil {
		m.picker.SetSize(contentWidth, contentHeight)
		pickerView := m.picker.View()
		content = lipgloss.Place(
			contentWidth, contentHeight,
			lipgloss.Center, lipgloss.Center,
			pickerView,
		)
	}

	statusBar := renderStatusBar(page.ShortHelp(), m.width, m.focus)

	return renderLayout(targetBar, sidebar, content, statusBar)
}

func (m *Model) nextPage() {
	for i, id := range PageOrder {
		if id == m.activePage {
			m.activePage = PageOrder[(i+1)%len(PageOrder)]
			return
		}
	}
}

func (m *Model) prevPage() {
	for i, id := range PageOrder {
		if id == m.activePage {
			m.activePage = PageOrder[(i-1+len(PageOrder))%len(PageOrder)]
			return
		}
	}
}
