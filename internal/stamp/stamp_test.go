package stamp

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestShouldRun(t *testing.T) {
	tests := []struct {
		name               string
		current, persisted string
		outputExists       bool
		want               bool
	}{
		{"unchanged with output", "abc", "abc", true, false},
		{"changed", "abc", "def", true, true},
		{"first run", "abc", "", true, true},
		{"output deleted", "abc", "abc", false, true},
		{"source reset still counts as changed", "old", "new", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRun(tt.current, tt.persisted, tt.outputExists); got != tt.want {
				t.Errorf("ShouldRun(%q, %q, %v) = %v, want %v",
					tt.current, tt.persisted, tt.outputExists, got, tt.want)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer store.Close()

	testStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer store.Close()

	testStore(t, store)
}

func testStore(t *testing.T, store Store) {
	t.Helper()

	if _, err := store.Load("journal"); !errors.Is(err, ErrNoStamp) {
		t.Errorf("Load before commit: error = %v, want ErrNoStamp", err)
	}

	if err := store.Commit("journal", "s=abc;i=42"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	got, err := store.Load("journal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "s=abc;i=42" {
		t.Errorf("Load = %q, want s=abc;i=42", got)
	}

	// Stamps are independent per exporter.
	if _, err := store.Load("cargo"); !errors.Is(err, ErrNoStamp) {
		t.Errorf("Load other name: error = %v, want ErrNoStamp", err)
	}

	// Commit overwrites.
	if err := store.Commit("journal", "s=def;i=43"); err != nil {
		t.Fatalf("second Commit failed: %v", err)
	}
	got, err = store.Load("journal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "s=def;i=43" {
		t.Errorf("Load after overwrite = %q, want s=def;i=43", got)
	}
}
