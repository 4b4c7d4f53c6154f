package store

import "time"

// BuildRecord captures the result of a build operation.
type BuildRecord struct {
	Board     string    `json:"board"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Duration  string    `json:"duration"`
	SketchLen int       `json:"sketch_len,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FlashRecord captures the result of a flash operation.
type FlashRecord struct {
	Board     string    `json:"board"`
	Port      string    `json:"port"`
	Firmware  string    `json:"firmware,omitempty"`
	Realtime  bool      `json:"realtime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Duration  string    `json:"duration"`
	Error     string    `json:"error,omitempty"`
}

// SerialLog tracks a serial monitoring session.
type SerialLog struct {
	Port      string    `json:"port"`
	BaudRate  int       `json:"baud_rate"`
	Timestamp time.Time `json:"timestamp"`
}
