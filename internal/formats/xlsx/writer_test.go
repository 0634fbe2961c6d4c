package xlsx

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	rows := [][]string{
		{"Name", "City"},
		{"Acme", "Helsinki"},
		{"", ""},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 rows back, got %d", len(got))
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("got %v, want %v", got, rows)
	}
	if !reflect.DeepEqual(got[2], []string{"", ""}) {
		t.Errorf("row 3 should come back as two empty cells, got %v", got[2])
	}
}

func TestWriteJaggedRowsPadOnRead(t *testing.T) {
	rows := [][]string{
		{"a"},
		{"b", "c", "d"},
		{"e", "f"},
	}

	path := filepath.Join(t.TempDir(), "jagged.xlsx")
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := [][]string{
		{"a", "", ""},
		{"b", "c", "d"},
		{"e", "f", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWriteEscapesMarkup(t *testing.T) {
	rows := [][]string{{"A&B<C>", `say "hi"`}}

	path := filepath.Join(t.TempDir(), "escaped.xlsx")
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	sheet := readRawPart(t, path, worksheetPart)
	if !strings.Contains(sheet, "A&amp;B&lt;C&gt;") {
		t.Errorf("worksheet part does not escape markup characters:\n%s", sheet)
	}
	if strings.Contains(sheet, "A&B<C>") {
		t.Errorf("worksheet part contains unescaped text:\n%s", sheet)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got[0][0] != "A&B<C>" {
		t.Errorf("escaped text did not round-trip: got %q", got[0][0])
	}
	if got[0][1] != `say "hi"` {
		t.Errorf("quoted text did not round-trip: got %q", got[0][1])
	}
}

func TestWriteSparseCells(t *testing.T) {
	rows := [][]string{
		{"kept", "", "also kept"},
		{"", "", ""},
	}

	path := filepath.Join(t.TempDir(), "sparse.xlsx")
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	sheet := readRawPart(t, path, worksheetPart)

	// Empty cells are omitted entirely; empty rows stay as bare elements.
	if strings.Contains(sheet, `r="B1"`) {
		t.Errorf("empty cell B1 should not be written:\n%s", sheet)
	}
	if !strings.Contains(sheet, `<row r="2"/>`) {
		t.Errorf("empty row 2 should be written as a bare row element:\n%s", sheet)
	}
	if !strings.Contains(sheet, `r="A1"`) || !strings.Contains(sheet, `r="C1"`) {
		t.Errorf("non-empty cells missing from worksheet:\n%s", sheet)
	}
}

func TestWritePackageParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.xlsx")
	if err := Write(path, [][]string{{"x"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("output is not a readable archive: %v", err)
	}
	defer zr.Close()

	found := make(map[string]bool)
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, name := range []string{contentTypesPart, packageRelsPart, workbookPart, workbookRelsPart, worksheetPart} {
		if !found[name] {
			t.Errorf("package is missing part %s", name)
		}
	}

	wb := readRawPart(t, path, workbookPart)
	if !strings.Contains(wb, `name="Sheet1"`) || !strings.Contains(wb, `r:id="rId1"`) {
		t.Errorf("workbook part does not declare the fixed sheet:\n%s", wb)
	}
	rels := readRawPart(t, path, workbookRelsPart)
	if !strings.Contains(rels, `Id="rId1"`) || !strings.Contains(rels, `Target="worksheets/sheet1.xml"`) {
		t.Errorf("workbook relationships do not resolve rId1 to the worksheet:\n%s", rels)
	}
}

func TestWriteDestinationNotWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nested", "out.xlsx")

	err := Write(path, [][]string{{"x"}})
	if err == nil {
		t.Fatal("expected an error for an unwritable destination")
	}
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected *WriteError, got %T: %v", err, err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("failed write left a file at the destination")
	}
}

func TestWriteLeavesNoTempFileOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.xlsx")
	if err := Write(path, [][]string{{"x"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "clean.xlsx" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the output file, found %v", names)
	}
}

func readRawPart(t *testing.T, path, name string) string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("could not open archive: %v", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("could not open part %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("could not read part %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found in archive", name)
	return ""
}
