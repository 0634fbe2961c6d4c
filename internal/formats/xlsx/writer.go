package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Fixed identifiers used by the emitted package. The workbook lists exactly
// one sheet whose relationship id resolves to the worksheet part.
const (
	defaultSheetName = "Sheet1"
	worksheetRelID   = "rId1"

	nsSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Write persists rows as a new workbook package at path. Rows may be jagged;
// cells are placed positionally, column i in a row landing at column index i.
// Empty cells are omitted from the archive (a reader materializes them back
// as empty strings), while rows with no non-empty cells are still emitted as
// empty row elements so row numbering survives a round trip.
//
// Output is staged in a temporary file next to the destination and renamed
// into place, so a failed write never leaves a readable half-archive. Any
// filesystem failure surfaces as a *WriteError.
func Write(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := writePackage(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// writePackage assembles the five interdependent parts of a minimal valid
// workbook: content types, package relationships, workbook, workbook
// relationships, and the worksheet itself.
func writePackage(w io.Writer, rows [][]string) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{contentTypesPart, contentTypesXML()},
		{packageRelsPart, packageRelsXML()},
		{workbookPart, workbookXML()},
		{workbookRelsPart, workbookRelsXML()},
		{worksheetPart, worksheetXML(rows)},
	}
	for _, part := range parts {
		pw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", part.name, err)
		}
		if _, err := pw.Write([]byte(part.body)); err != nil {
			return fmt.Errorf("could not write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finalize archive: %w", err)
	}
	return nil
}

func contentTypesXML() string {
	return xml.Header + `<Types xmlns="` + nsPackageTypes + `">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/` + workbookPart + `" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
  <Override PartName="/` + worksheetPart + `" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
</Types>`
}

func packageRelsXML() string {
	return xml.Header + `<Relationships xmlns="` + nsPackageRels + `">
  <Relationship Id="rId1" Type="` + nsRelationships + `/officeDocument" Target="` + workbookPart + `"/>
</Relationships>`
}

func workbookXML() string {
	return xml.Header + `<workbook xmlns="` + nsSpreadsheetML + `" xmlns:r="` + nsRelationships + `">
  <sheets>
    <sheet name="` + defaultSheetName + `" sheetId="1" r:id="` + worksheetRelID + `"/>
  </sheets>
</workbook>`
}

func workbookRelsXML() string {
	return xml.Header + `<Relationships xmlns="` + nsPackageRels + `">
  <Relationship Id="` + worksheetRelID + `" Type="` + nsRelationships + `/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`
}

// worksheetXML encodes every non-empty cell as an inline string at the
// address formed from its column letters and 1-based row number.
func worksheetXML(rows [][]string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<worksheet xmlns="` + nsSpreadsheetML + `" xmlns:r="` + nsRelationships + `">`)
	b.WriteString(`<sheetData>`)

	for i, row := range rows {
		num := strconv.Itoa(i + 1)

		var cells strings.Builder
		for j, cell := range row {
			if cell == "" {
				continue
			}
			letters, err := IndexToLetters(j)
			if err != nil {
				// Slice indexes are never negative; nothing to skip in practice.
				continue
			}
			cells.WriteString(`<c r="` + letters + num + `" t="inlineStr"><is><t xml:space="preserve">`)
			cells.WriteString(xmlEscape(cell))
			cells.WriteString(`</t></is></c>`)
		}

		if cells.Len() == 0 {
			b.WriteString(`<row r="` + num + `"/>`)
			continue
		}
		b.WriteString(`<row r="` + num + `">`)
		b.WriteString(cells.String())
		b.WriteString(`</row>`)
	}

	b.WriteString(`</sheetData>`)
	b.WriteString(`</worksheet>`)
	return b.String()
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
