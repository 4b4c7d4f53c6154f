package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/store"
	"github.com/ScratchHW/scratch-link/internal/ui"
)

type historyTab int

const (
	historyBuilds historyTab = iota
	historyFlashes
)

const maxHistoryRows = 20

type HistoryPage struct {
	store *store.Store

	tab     historyTab
	builds  []store.BuildRecord
	flashes []store.FlashRecord
	loadErr error
	stale   bool

	width, height int
}

func NewHistoryPage(s *store.Store) *HistoryPage {
	return &HistoryPage{store: s}
}

func (p *HistoryPage) Init() tea.Cmd {
	p.reload()
	return nil
}

func (p *HistoryPage) reload() {
	if p.store == nil {
		return
	}
	builds, err := p.store.Builds()
	if err != nil {
		p.loadErr = err
		return
	}
	flashes, err := p.store.Flashes()
	if err != nil {
		p.loadErr = err
		return
	}
	p.loadErr = nil
	p.builds = builds
	p.flashes = flashes
}

func (p *HistoryPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case BuildDoneMsg, FlashDoneMsg:
		// The message is broadcast to all pages in no particular order,
		// so the page that appends the record may not have run yet.
		// Defer the reload until render time, when it has.
		p.stale = true
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "tab":
			if p.tab == historyBuilds {
				p.tab = historyFlashes
			} else {
				p.tab = historyBuilds
			}
		case "r":
			p.reload()
		}
	}
	return p, nil
}

func (p *HistoryPage) View() string {
	if p.stale {
		p.stale = false
		p.reload()
	}
	var b strings.Builder
	b.WriteString(ui.Title("History"))
	b.WriteString("\n")

	buildsTab := "Builds"
	flashesTab := "Flashes"
	if p.tab == historyBuilds {
		buildsTab = ui.BoldStyle.Render(buildsTab)
		flashesTab = ui.DimStyle.Render(flashesTab)
	} else {
		buildsTab = ui.DimStyle.Render(buildsTab)
		flashesTab = ui.BoldStyle.Render(flashesTab)
	}
	b.WriteString(buildsTab + "  " + flashesTab + "\n\n")

	if p.loadErr != nil {
		b.WriteString(fmt.Sprintf("Cannot load history: %v\n", p.loadErr))
		return b.String()
	}

	switch p.tab {
	case historyBuilds:
		p.viewBuilds(&b)
	case historyFlashes:
		p.viewFlashes(&b)
	}

	b.WriteString("\n" + ui.DimStyle.Render("tab: switch  r: reload"))
	return b.String()
}

func (p *HistoryPage) viewBuilds(b *strings.Builder) {
	if len(p.builds) == 0 {
		b.WriteString(ui.DimStyle.Render("No builds recorded yet.") + "\n")
		return
	}
	// Newest first
	for i := len(p.builds) - 1; i >= 0 && i >= len(p.builds)-maxHistoryRows; i-- {
		r := p.builds[i]
		b.WriteString(fmt.Sprintf("%s  %-10s %-32s %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			historyOutcome(r.Success),
			r.Board,
			ui.DimStyle.Render(r.Duration)))
	}
}

func (p *HistoryPage) viewFlashes(b *strings.Builder) {
	if len(p.flashes) == 0 {
		b.WriteString(ui.DimStyle.Render("No flashes recorded yet.") + "\n")
		return
	}
	for i := len(p.flashes) - 1; i >= 0 && i >= len(p.flashes)-maxHistoryRows; i-- {
		r := p.flashes[i]
		mode := ""
		if r.Realtime {
			mode = " realtime"
		}
		b.WriteString(fmt.Sprintf("%s  %-10s %-32s %s%s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			historyOutcome(r.Success),
			r.Board,
			r.Port,
			ui.DimStyle.Render(mode)))
	}
}

func historyOutcome(success bool) string {
	if success {
		return ui.Badge("OK", ui.Success)
	}
	return ui.Badge("FAIL", ui.Error)
}

func (p *HistoryPage) Name() string { return "History" }

func (p *HistoryPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (p *HistoryPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
