package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hitoshi/mergington/internal/security"
)

func TestLoad_EmbeddedSeed(t *testing.T) {
	activities, err := Load("", security.NewTextSanitizer())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(activities) != 9 {
		t.Fatalf("len(activities) = %d, want 9", len(activities))
	}
	if activities[0].Name != "Chess Club" {
		t.Errorf("first activity = %q, want %q", activities[0].Name, "Chess Club")
	}
	if activities[0].MaxParticipants != 12 {
		t.Errorf("Chess Club max = %d, want 12", activities[0].MaxParticipants)
	}
	if !activities[0].HasParticipant("michael@mergington.edu") {
		t.Error("Chess Club should start with michael@mergington.edu")
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	content := `{"activities": [{"name": "Robotics", "description": "Build <b>robots</b>", "schedule": "Mondays", "max_participants": 8}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	activities, err := Load(path, security.NewTextSanitizer())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("len(activities) = %d, want 1", len(activities))
	}
	if activities[0].Description != "Build robots" {
		t.Errorf("Description = %q, want markup stripped", activities[0].Description)
	}
	if activities[0].Participants == nil {
		t.Error("expected empty, non-nil roster")
	}
}

func TestLoad_MissingOverrideFile_ReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), security.NewTextSanitizer()); err == nil {
		t.Fatal("expected error for missing override file, got nil")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"activities": [`},
		{"empty catalog", `{"activities": []}`},
		{"zero capacity", `{"activities": [{"name": "A", "max_participants": 0}]}`},
		{"duplicate name", `{"activities": [{"name": "A", "max_participants": 1}, {"name": "A", "max_participants": 2}]}`},
		{"over capacity", `{"activities": [{"name": "A", "max_participants": 1, "participants": ["a@x.edu", "b@x.edu"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), security.NewTextSanitizer()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
