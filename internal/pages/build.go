package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/store"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

type buildState int

const (
	buildStateIdle buildState = iota
	buildStateRunning
	buildStateDone
)

type BuildPage struct {
	sketchInput textinput.Model
	state       buildState
	output      strings.Builder
	viewport    viewport.Model

	orch  Orchestrator
	store *store.Store
	cwd   string

	board      arduino.BoardProfile
	hasBoard   bool
	buildStart time.Time
	sketchLen  int

	width, height int
	message       string
}

func NewBuildPage(orch Orchestrator, s *store.Store, cwd string) *BuildPage {
	sketch := textinput.New()
	sketch.Placeholder = "path/to/sketch.ino"
	sketch.CharLimit = 256
	sketch.Prompt = ""

	return &BuildPage{
		sketchInput: sketch,
		viewport:    viewport.New(0, 0),
		orch:        orch,
		store:       s,
		cwd:         cwd,
	}
}

func (p *BuildPage) Init() tea.Cmd { return nil }

func (p *BuildPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.BoardSelectedMsg:
		p.board = msg.Board
		p.hasBoard = true
		return p, nil

	case BuildDoneMsg:
		if p.state != buildStateRunning {
			return p, nil
		}
		p.state = buildStateDone
		p.output.WriteString(msg.Transcript)
		p.output.WriteString(fmt.Sprintf("\n%s %s in %s\n", ui.OutcomeBadge(msg.Err), buildStatus(msg.Err), msg.Duration.Round(time.Millisecond)))
		p.updateViewportContent()
		p.viewport.GotoBottom()

		if p.store != nil {
			rec := store.BuildRecord{
				Board:     p.board.FQBN,
				Timestamp: p.buildStart,
				Success:   msg.Err == nil,
				Duration:  msg.Duration.String(),
				SketchLen: p.sketchLen,
			}
			if msg.Err != nil {
				rec.Error = msg.Err.Error()
			}
			p.store.AddBuild(rec)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func buildStatus(err error) string {
	if err == nil {
		return "Build succeeded"
	}
	return fmt.Sprintf("Build failed: %v", err)
}

func (p *BuildPage) handleKey(msg tea.KeyMsg) (app.Page, tea.Cmd) {
	// While running, only viewport scrolling
	if p.state == buildStateRunning {
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "ctrl+b":
		return p, p.startBuild()
	case "enter":
		if p.sketchInput.Focused() {
			return p, p.startBuild()
		}
		p.sketchInput.Focus()
		return p, nil
	case "esc":
		if p.sketchInput.Focused() {
			p.sketchInput.Blur()
			return p, nil
		}
		if p.state == buildStateDone {
			p.state = buildStateIdle
			p.output.Reset()
			p.updateViewportContent()
		}
		return p, nil
	}

	if p.sketchInput.Focused() {
		var cmd tea.Cmd
		p.sketchInput, cmd = p.sketchInput.Update(msg)
		return p, cmd
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *BuildPage) startBuild() tea.Cmd {
	if !p.hasBoard {
		p.message = "Select a board first ([b] in the sidebar)"
		return nil
	}
	sketch := p.sketchInput.Value()
	if sketch == "" {
		p.message = "Sketch path is required"
		return nil
	}
	if !filepath.IsAbs(sketch) {
		sketch = filepath.Join(p.cwd, sketch)
	}
	source, err := os.ReadFile(sketch)
	if err != nil {
		p.message = fmt.Sprintf("Cannot read sketch: %v", err)
		return nil
	}

	p.state = buildStateRunning
	p.output.Reset()
	p.buildStart = time.Now()
	p.sketchLen = len(source)
	p.message = ""
	p.sketchInput.Blur()

	p.output.WriteString(fmt.Sprintf("Compiling for %s...\n\n", p.board.Name))
	p.updateViewportContent()

	return p.orch.Build(p.board, source)
}

func (p *BuildPage) View() string {
	formHeight := 6
	outputHeight := p.height - formHeight - 1
	if outputHeight < 5 {
		outputHeight = 5
		formHeight = p.height - outputHeight - 1
	}

	form := p.viewForm()
	output := p.viewOutput(p.width, outputHeight)

	return lipgloss.JoinVertical(lipgloss.Left, form, output)
}

func (p *BuildPage) viewForm() string {
	var b strings.Builder
	b.WriteString(ui.Title("Build"))
	b.WriteString("\n")

	inputWidth := p.width - 12
	if inputWidth < 10 {
		inputWidth = 10
	}
	p.sketchInput.Width = inputWidth

	b.WriteString("Sketch  " + p.sketchInput.View() + "\n")

	board := ui.DimStyle.Render("(none, press [b])")
	if p.hasBoard {
		board = p.board.Name + " " + ui.DimStyle.Render(p.board.FQBN)
	}
	b.WriteString("Board   " + board + "\n")

	if p.message != "" {
		b.WriteString("\n" + p.message + "\n")
	}
	b.WriteString("\n" + ui.DimStyle.Render("ctrl+b: build  enter: edit path  esc: unfocus"))
	return b.String()
}

func (p *BuildPage) viewOutput(width int, height int) string {
	contentWidth := width - 3
	contentHeight := height - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	oldWidth := p.viewport.Width
	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight
	if oldWidth != contentWidth && p.output.Len() > 0 {
		p.updateViewportContent()
	}

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderForeground(ui.Surface).
		PaddingLeft(1)

	if p.output.Len() == 0 {
		return style.Render(ui.DimStyle.Render("Build output will appear here..."))
	}
	return style.Render(p.viewport.View())
}

func (p *BuildPage) Name() string { return "Build" }

func (p *BuildPage) ShortHelp() []key.Binding {
	if p.state == buildStateRunning {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "build")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit path")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unfocus")),
	}
}

func (p *BuildPage) InputCaptured() bool {
	return p.state != buildStateRunning && p.sketchInput.Focused()
}

func (p *BuildPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *BuildPage) updateViewportContent() {
	if p.viewport.Width <= 0 {
		p.viewport.SetContent(p.output.String())
		return
	}
	wrapped := wrap.String(p.output.String(), p.viewport.Width)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		if ansi.PrintableRuneWidth(line) > p.viewport.Width {
			lines[i] = truncate.String(line, uint(p.viewport.Width))
		}
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
}
