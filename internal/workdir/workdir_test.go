package workdir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestListInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "notes.TXT", "data.xlsx", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListInputs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.txt", "b.txt", "notes.TXT"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("file %d = %q, want %q", i, f.Name, want[i])
		}
		if f.Path != filepath.Join(dir, want[i]) {
			t.Errorf("path = %q", f.Path)
		}
	}
}

func TestListInputsMissingDir(t *testing.T) {
	_, err := ListInputs(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp()
	parsed, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		t.Fatalf("timestamp %q does not parse: %v", ts, err)
	}
	if time.Since(parsed) > time.Minute {
		t.Errorf("timestamp %q is stale", ts)
	}
}

func TestOutputNames(t *testing.T) {
	ts := "20260115_093000"

	if got := ExportPath("input", ts); got != filepath.Join("input", "20260115_093000_export.xlsx") {
		t.Errorf("ExportPath = %q", got)
	}
	if got := EnrichedPath(filepath.Join("data", "investors.xlsx"), ts); got != filepath.Join("data", "investors_enriched_20260115_093000.xlsx") {
		t.Errorf("EnrichedPath = %q", got)
	}
	got := ResultPath(filepath.Join("data", "investors.xlsx"), ts)
	if got != filepath.Join("data", "Results", "20260115_093000_investors.xlsx") {
		t.Errorf("ResultPath = %q", got)
	}
	if got := BiosPath("Results", ts); !strings.HasSuffix(got, "LinkedIn_Bios_20260115_093000.xlsx") {
		t.Errorf("BiosPath = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	// Idempotent on an existing directory.
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
}
