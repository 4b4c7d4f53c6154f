package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// DefaultBaudRate matches the Arduino serial monitor default.
	DefaultBaudRate = 9600

	// DefaultBoard is the most common target.
	DefaultBoard = "arduino:avr:uno"
)

// Config holds all scratch-link configuration.
type Config struct {
	DefaultBoard   string `json:"default_board,omitempty"`
	SerialPort     string `json:"serial_port,omitempty"`
	SerialBaudRate int    `json:"serial_baud_rate,omitempty"`
	WorkspaceRoot  string `json:"workspace_root,omitempty"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		DefaultBoard:   DefaultBoard,
		SerialBaudRate: DefaultBaudRate,
	}
}

// Load reads and merges global and workspace configs.
// Order: defaults → global (~/.config/scratch-link/config.json) →
// workspace (.scratch-link/config.json).
func Load(workspaceRoot string) Config {
	cfg := Defaults()

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".config", "scratch-link", "config.json")
		mergeFromFile(&cfg, globalPath)
	}

	if workspaceRoot != "" {
		wsPath := filepath.Join(workspaceRoot, ".scratch-link", "config.json")
		mergeFromFile(&cfg, wsPath)
	}

	return cfg
}

// Save writes the config to the workspace .scratch-link/config.json by
// default, or to the global config if global is true.
func Save(cfg Config, workspaceRoot string, global bool) error {
	var dir string
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".config", "scratch-link")
	} else {
		dir = filepath.Join(workspaceRoot, ".scratch-link")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

func mergeFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	if fileCfg.DefaultBoard != "" {
		cfg.DefaultBoard = fileCfg.DefaultBoard
	}
	if fileCfg.SerialPort != "" {
		cfg.SerialPort = fileCfg.SerialPort
	}
	if fileCfg.SerialBaudRate != 0 {
		cfg.SerialBaudRate = fileCfg.SerialBaudRate
	}
	if fileCfg.WorkspaceRoot != "" {
		cfg.WorkspaceRoot = fileCfg.WorkspaceRoot
	}
}
