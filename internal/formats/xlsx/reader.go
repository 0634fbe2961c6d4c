// Package xlsx implements a minimal one-sheet .xlsx codec directly against
// the OOXML packaging structure — a zip archive of XML parts — rather than
// through a spreadsheet library. It reads the first worksheet of an existing
// workbook into a dense table of string cells and writes such a table back
// out as a new, valid workbook. One sheet, string values only: no styles,
// formulas, merged cells, or typed cells.
package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Part names within the package. The reader and writer agree on these; the
// workbook relationships emitted by the writer resolve to the same
// locations.
const (
	contentTypesPart  = "[Content_Types].xml"
	packageRelsPart   = "_rels/.rels"
	workbookPart      = "xl/workbook.xml"
	workbookRelsPart  = "xl/_rels/workbook.xml.rels"
	worksheetPart     = "xl/worksheets/sheet1.xml"
	sharedStringsPart = "xl/sharedStrings.xml"
)

// Worksheet XML shapes. encoding/xml matches on local names, so these work
// for any namespace prefix a producer chose.

type xlsxWorksheet struct {
	SheetData xlsxSheetData `xml:"sheetData"`
}

type xlsxSheetData struct {
	Rows []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref    string      `xml:"r,attr"`
	Type   string      `xml:"t,attr"`
	Value  string      `xml:"v"`
	Inline *xlsxInline `xml:"is"`
}

type xlsxInline struct {
	Texts []xlsxText `xml:"t"`
	Runs  []xlsxRun  `xml:"r"`
}

type xlsxSST struct {
	Entries []xlsxStringItem `xml:"si"`
}

type xlsxStringItem struct {
	Text *xlsxText `xml:"t"`
	Runs []xlsxRun `xml:"r"`
}

type xlsxRun struct {
	Text xlsxText `xml:"t"`
}

type xlsxText struct {
	Value string `xml:",chardata"`
}

// Read opens the workbook at path and returns its first sheet as a dense
// table of string cells. Every returned row has the same length: one plus
// the maximum column index seen anywhere in the sheet. Cells absent from
// the source are empty strings. The read either fully succeeds or fully
// fails with a *ReadError — there is no partial result.
func Read(path string) ([][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("not a valid .xlsx package: %w", err)}
	}
	defer zr.Close()

	return readSheet(&zr.Reader, path)
}

// ReadBytes is Read for in-memory workbook data, e.g. piped over stdin.
func ReadBytes(data []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ReadError{Path: "<stdin>", Err: fmt.Errorf("not a valid .xlsx package: %w", err)}
	}
	return readSheet(zr, "<stdin>")
}

func readSheet(zr *zip.Reader, path string) ([][]string, error) {
	shared, err := readSharedStrings(zr)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	data, err := readPart(zr, worksheetPart)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var ws xlsxWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("could not parse %s: %w", worksheetPart, err)}
	}

	// First pass: sparse column->value mapping per row, tracking the widest
	// column seen across the whole sheet. One outlier row widens every row;
	// the surrounding tooling depends on column positions lining up across
	// rows, so the padding is sheet-global on purpose.
	sparse := make([]map[int]string, 0, len(ws.SheetData.Rows))
	maxCol := 0
	for _, row := range ws.SheetData.Rows {
		cells := make(map[int]string, len(row.Cells))
		for _, c := range row.Cells {
			col := LettersToIndex(c.Ref)
			if col < 0 {
				continue
			}
			val, cellErr := resolveCell(c, shared)
			if cellErr != nil && !lenientCellValues {
				return nil, &ReadError{Path: path, Err: cellErr}
			}
			cells[col] = val
			if col+1 > maxCol {
				maxCol = col + 1
			}
		}
		sparse = append(sparse, cells)
	}

	// Second pass: materialize dense rows.
	rows := make([][]string, len(sparse))
	for i, cells := range sparse {
		row := make([]string, maxCol)
		for col, val := range cells {
			row[col] = val
		}
		rows[i] = row
	}
	return rows, nil
}

// readSharedStrings loads the deduplicated string pool. A missing part is
// not an error — it means the sheet uses only inline or raw cells.
func readSharedStrings(zr *zip.Reader) ([]string, error) {
	data, err := readPart(zr, sharedStringsPart)
	if err != nil {
		return nil, nil
	}

	var sst xlsxSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", sharedStringsPart, err)
	}

	strs := make([]string, 0, len(sst.Entries))
	for _, si := range sst.Entries {
		if si.Text != nil && si.Text.Value != "" {
			strs = append(strs, si.Text.Value)
			continue
		}
		// Rich-text entry: concatenate run texts in document order.
		var b strings.Builder
		for _, run := range si.Runs {
			b.WriteString(run.Text.Value)
		}
		strs = append(strs, b.String())
	}
	return strs, nil
}

// resolveCell produces the textual value of one cell, dispatching on its
// declared type. The returned error describes a per-cell anomaly; under the
// lenient policy the caller keeps the empty value and carries on.
func resolveCell(c xlsxCell, shared []string) (string, error) {
	switch c.Type {
	case "s":
		if c.Value == "" {
			return "", nil
		}
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			return "", fmt.Errorf("cell %s: malformed shared string reference %q", c.Ref, c.Value)
		}
		if idx < 0 || idx >= len(shared) {
			return "", fmt.Errorf("cell %s: shared string index %d out of range (table has %d entries)", c.Ref, idx, len(shared))
		}
		return shared[idx], nil
	case "inlineStr":
		if c.Inline == nil {
			return "", nil
		}
		var b strings.Builder
		for _, t := range c.Inline.Texts {
			b.WriteString(t.Value)
		}
		for _, run := range c.Inline.Runs {
			b.WriteString(run.Text.Value)
		}
		return b.String(), nil
	default:
		// Numeric and other raw cells: the literal value text verbatim.
		return c.Value, nil
	}
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing %s part", name)
}
