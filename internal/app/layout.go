package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ScratchHW/scratch-link/internal/ui"
)

const sidebarWidth = 22 // 20 content + 2 border/padding

func renderTargetBar(board, port, notice string, width int, sidebarFocused bool) string {
	boardDisplay := board
	if boardDisplay == "" {
		boardDisplay = "(none)"
	}
	portDisplay := port
	if portDisplay == "" {
		portDisplay = "(none)"
	}
	content := fmt.Sprintf("Board: %s  Port: %s", boardDisplay, portDisplay)
	if notice != "" {
		content += ui.ErrorStyle.Render("  " + notice)
	}
	hint := ""
	if sidebarFocused {
		hint = ui.DimStyle.Render("  [b] board  [p] port")
	}
	return ui.StatusBarStyle.Width(width).Render(content + hint)
}

func renderSidebar(pages []PageID, active PageID, pageMap map[PageID]Page, height int, focused bool) string {
	var b strings.Builder
	title := ""
	if focused {
		title = ui.BoldStyle.Render("scratch-link [FOCUSED]")
	} else {
		title = ui.TitleStyle.Render("scratch-link")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, id := range pages {
		p := pageMap[id]
		if id == active {
			b.WriteString(ui.SidebarActiveStyle.Render("▸ " + p.Name()))
		} else {
			b.WriteString(ui.SidebarItemStyle.Render("  " + p.Name()))
		}
		b.WriteString("\n")
	}

	style := ui.SidebarStyle.Height(height)
	if focused {
		style = style.BorderForeground(ui.Primary)
	}
	return style.Render(b.String())
}

func renderStatusBar(pageHelp []key.Binding, width int, focus FocusArea) string {
	var parts []string

	if focus == FocusSidebar {
		parts = append(parts,
			ui.StatusKey("↑/↓", "navigate"),
			ui.StatusKey("enter", "select"),
			ui.StatusKey("b", "board"),
			ui.StatusKey("p", "port"),
		)
	} else {
		for _, kb := range pageHelp {
			if kb.Enabled() {
				parts = append(parts, ui.StatusKey(kb.Help().Key, kb.Help().Desc))
			}
		}
	}

	parts = append(parts,
		ui.StatusKey("tab", "focus"),
		ui.StatusKey("?", "help"),
		ui.StatusKey("q", "quit"),
	)

	line := strings.Join(parts, "  ")
	return ui.StatusBarStyle.Width(width).Render(line)
}

func renderLayout(targetBar, sidebar, content, statusBar string) string {
	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left, targetBar, main, statusBar)
}
