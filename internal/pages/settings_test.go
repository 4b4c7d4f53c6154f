package pages

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScratchHW/scratch-link/internal/config"
)

func TestSettingsArrowKeyNavigation(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, t.TempDir())

	if p.cursor != 0 {
		t.Fatalf("expected cursor=0, got %d", p.cursor)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Fatalf("expected cursor=1 after down, got %d", p.cursor)
	}

	for i := 0; i < len(settingFields); i++ {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.cursor != len(settingFields)-1 {
		t.Fatalf("expected cursor to clamp at %d, got %d", len(settingFields)-1, p.cursor)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != len(settingFields)-2 {
		t.Fatalf("expected cursor=%d after up, got %d", len(settingFields)-2, p.cursor)
	}

	p.cursor = 0
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Fatalf("expected cursor to clamp at 0, got %d", p.cursor)
	}
}

func TestSettingsEnterEditMode(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, t.TempDir())

	if p.editing {
		t.Fatal("expected editing=false initially")
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.editing {
		t.Fatal("expected editing=true after Enter")
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.editing {
		t.Fatal("expected editing=false after Esc")
	}
}

func TestSettingsApplyBaudRate(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, t.TempDir())

	for p.cursor < 2 {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if settingFields[p.cursor].key != "serial_baud_rate" {
		t.Fatalf("expected cursor on serial_baud_rate, got %s", settingFields[p.cursor].key)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.input.SetValue("115200")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cfg.SerialBaudRate != 115200 {
		t.Fatalf("expected SerialBaudRate=115200, got %d", cfg.SerialBaudRate)
	}
}

func TestSettingsInvalidBaudRate(t *testing.T) {
	cfg := config.Defaults()
	originalBaud := cfg.SerialBaudRate
	p := NewSettingsPage(&cfg, t.TempDir())

	for p.cursor < 2 {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.input.SetValue("not-a-number")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cfg.SerialBaudRate != originalBaud {
		t.Fatalf("expected SerialBaudRate to remain %d, got %d", originalBaud, cfg.SerialBaudRate)
	}
	if p.editing {
		t.Fatal("expected editing=false after confirm")
	}
}

func TestSettingsSaveToWorkspace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Defaults()
	wsRoot := t.TempDir()
	p := NewSettingsPage(&cfg, wsRoot)

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.input.SetValue("arduino:avr:leonardo")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	loaded := config.Load(wsRoot)
	if loaded.DefaultBoard != "arduino:avr:leonardo" {
		t.Fatalf("expected saved board to round-trip, got %q", loaded.DefaultBoard)
	}
}
