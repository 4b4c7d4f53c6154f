package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/app"
	"github.com/ScratchHW/scratch-link/internal/arduino"
	"github.com/ScratchHW/scratch-link/internal/config"
	"github.com/ScratchHW/scratch-link/internal/pages"
	"github.com/ScratchHW/scratch-link/internal/serial"
	"github.com/ScratchHW/scratch-link/internal/store"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	root := workspaceRoot()
	cfg := config.Load(root)
	if cfg.WorkspaceRoot != "" && cfg.WorkspaceRoot != root {
		root = cfg.WorkspaceRoot
		cfg = config.Load(root)
	}

	ws := arduino.NewWorkspace(root)
	if _, err := os.Stat(ws.BuilderPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: arduino-builder not found at %s; builds will fail until the Arduino tools are installed\n", ws.BuilderPath)
	}

	st := store.New(filepath.Join(root, ".scratch-link"))
	transport := serial.NewTransport()
	toolchain := pages.NewToolchain(ws)
	monitor := serial.NewMonitor()

	pageMap := map[app.PageID]app.Page{
		app.BuildPage:    pages.NewBuildPage(toolchain, st, cwd),
		app.FlashPage:    pages.NewFlashPage(toolchain, st, monitor),
		app.MonitorPage:  pages.NewMonitorPage(monitor, &cfg, st),
		app.DevicesPage:  pages.NewDevicesPage(transport.List),
		app.HistoryPage:  pages.NewHistoryPage(st),
		app.SettingsPage: pages.NewSettingsPage(&cfg, root),
	}

	model := app.New(pageMap, &cfg, root, transport.List)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// workspaceRoot resolves where the Arduino tools, project and firmware
// directories live. SCRATCH_LINK_ROOT overrides the default under the
// user's home directory.
func workspaceRoot() string {
	if root := os.Getenv("SCRATCH_LINK_ROOT"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scratch-link"
	}
	return filepath.Join(home, ".scratch-link")
}
