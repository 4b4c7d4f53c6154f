package store

import (
	"testing"
	"time"
)

func TestAddAndLoadBuilds(t *testing.T) {
	s := New(t.TempDir())

	rec := BuildRecord{
		Board:     "arduino:avr:uno",
		Timestamp: time.Now(),
		Success:   true,
		Duration:  "4.2s",
		SketchLen: 120,
	}
	if err := s.AddBuild(rec); err != nil {
		t.Fatalf("AddBuild failed: %v", err)
	}
	if err := s.AddBuild(BuildRecord{Board: "arduino:avr:leonardo", Success: false, Error: "build failed"}); err != nil {
		t.Fatalf("AddBuild failed: %v", err)
	}

	builds, err := s.Builds()
	if err != nil {
		t.Fatalf("Builds failed: %v", err)
	}
	if len(builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(builds))
	}
	if builds[0].Board != "arduino:avr:uno" || !builds[0].Success {
		t.Errorf("unexpected first record: %+v", builds[0])
	}
	if builds[1].Error != "build failed" {
		t.Errorf("expected error message preserved, got %+v", builds[1])
	}
}

func TestAddAndLoadFlashes(t *testing.T) {
	s := New(t.TempDir())

	if err := s.AddFlash(FlashRecord{
		Board:    "arduino:avr:leonardo",
		Port:     "/dev/ttyACM0",
		Realtime: true,
		Success:  true,
		Duration: "9.1s",
	}); err != nil {
		t.Fatalf("AddFlash failed: %v", err)
	}

	flashes, err := s.Flashes()
	if err != nil {
		t.Fatalf("Flashes failed: %v", err)
	}
	if len(flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(flashes))
	}
	if !flashes[0].Realtime || flashes[0].Port != "/dev/ttyACM0" {
		t.Errorf("unexpected record: %+v", flashes[0])
	}
}

func TestLoadFromEmptyStore(t *testing.T) {
	s := New(t.TempDir())
	builds, err := s.Builds()
	if err != nil {
		t.Fatalf("Builds on empty store failed: %v", err)
	}
	if len(builds) != 0 {
		t.Errorf("expected no records, got %d", len(builds))
	}
}
