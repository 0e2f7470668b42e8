package upload

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies marking and checking upload state, and that
// a content change invalidates the record.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	uploaded, err := state.IsUploaded("plans/march.xlsx", 1234, "abc")
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if uploaded {
		t.Error("fresh state reports file as uploaded")
	}

	if err := state.MarkUploaded("plans/march.xlsx", 1234, "abc"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}

	uploaded, err = state.IsUploaded("plans/march.xlsx", 1234, "abc")
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if !uploaded {
		t.Error("marked file not reported as uploaded")
	}

	// Same path with different hash means the workbook changed.
	uploaded, err = state.IsUploaded("plans/march.xlsx", 1234, "def")
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if uploaded {
		t.Error("changed file reported as uploaded")
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.xlsx")
	if err := os.WriteFile(path, []byte("workbook bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != h2 {
		t.Error("hash not stable across reads")
	}

	if err := os.WriteFile(path, []byte("different bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
