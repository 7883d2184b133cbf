package credential

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teachers.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoad_ValidFile_ReturnsCredentials(t *testing.T) {
	path := writeFile(t, `{"teachers": {"teacher1": "pw1", "teacher2": "pw2"}}`)

	store, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	pw, ok := store.Lookup("teacher1")
	if !ok || pw != "pw1" {
		t.Errorf("Lookup(teacher1) = (%q, %v), want (%q, true)", pw, ok, "pw1")
	}
}

func TestLoad_MissingFile_ReturnsEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if _, ok := store.Lookup("teacher1"); ok {
		t.Error("expected lookup to fail on empty store")
	}
}

func TestLoad_MissingTeachersKey_ReturnsEmptyStore(t *testing.T) {
	path := writeFile(t, `{"staff": {"teacher1": "pw1"}}`)

	store, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	path := writeFile(t, `{"teachers": `)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestNewStore_CopiesInput(t *testing.T) {
	src := map[string]string{"teacher1": "pw1"}
	store := NewStore(src)

	src["teacher1"] = "changed"
	src["intruder"] = "pw"

	if pw, _ := store.Lookup("teacher1"); pw != "pw1" {
		t.Errorf("Lookup(teacher1) = %q, want %q", pw, "pw1")
	}
	if _, ok := store.Lookup("intruder"); ok {
		t.Error("store must not observe mutations of the source map")
	}
}
