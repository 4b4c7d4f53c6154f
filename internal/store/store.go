package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store persists build/flash history and serial session records as JSON
// under the workspace .scratch-link directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at the given directory (typically .scratch-link/).
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) historyDir() string {
	return filepath.Join(s.root, "history")
}

// AddBuild appends a build record.
func (s *Store) AddBuild(r BuildRecord) error {
	return s.appendRecord("builds.json", r)
}

// AddFlash appends a flash record.
func (s *Store) AddFlash(r FlashRecord) error {
	return s.appendRecord("flashes.json", r)
}

// AddSerialLog appends a serial session record.
func (s *Store) AddSerialLog(r SerialLog) error {
	return s.appendRecord("serial_logs.json", r)
}

// Builds returns all build records.
func (s *Store) Builds() ([]BuildRecord, error) {
	var records []BuildRecord
	err := s.loadRecords("builds.json", &records)
	return records, err
}

// Flashes returns all flash records.
func (s *Store) Flashes() ([]FlashRecord, error) {
	var records []FlashRecord
	err := s.loadRecords("flashes.json", &records)
	return records, err
}

// SerialLogs returns all serial session records.
func (s *Store) SerialLogs() ([]SerialLog, error) {
	var records []SerialLog
	err := s.loadRecords("serial_logs.json", &records)
	return records, err
}

func (s *Store) appendRecord(filename string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.historyDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, filename)

	var records []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, &records)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	records = append(records, raw)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) loadRecords(filename string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.historyDir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
