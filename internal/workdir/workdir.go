// Package workdir manages the directory layout of a prospecting run: the
// input directory of raw text exports and the Results directory the
// generated workbooks land in, plus the timestamped naming every output
// file follows.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the timestamp format embedded in output file names.
const TimestampLayout = "20060102_150405"

// Timestamp returns the current time in the output file name format.
func Timestamp() string {
	return time.Now().Format(TimestampLayout)
}

// InputFile describes one raw text export found in the input directory.
type InputFile struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ListInputs returns the .txt exports directly inside dir, sorted by name.
func ListInputs(dir string) ([]InputFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read input directory %s: %w", dir, err)
	}

	var files []InputFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, InputFile{
			Path:       filepath.Join(dir, e.Name()),
			Name:       e.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// EnsureDir creates dir if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	return nil
}

// baseName strips the directory and extension from a path.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExportPath names the workbook an extract run produces inside dir.
func ExportPath(dir, ts string) string {
	return filepath.Join(dir, ts+"_export.xlsx")
}

// EnrichedPath names the enriched copy of a workbook, next to the input.
func EnrichedPath(inputPath, ts string) string {
	dir := filepath.Dir(inputPath)
	return filepath.Join(dir, fmt.Sprintf("%s_enriched_%s.xlsx", baseName(inputPath), ts))
}

// ResultPath names a processed copy of a workbook inside the Results
// directory next to the input.
func ResultPath(inputPath, ts string) string {
	dir := filepath.Join(filepath.Dir(inputPath), "Results")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", ts, baseName(inputPath)))
}

// BiosPath names the workbook a bios run produces inside resultsDir.
func BiosPath(resultsDir, ts string) string {
	return filepath.Join(resultsDir, fmt.Sprintf("LinkedIn_Bios_%s.xlsx", ts))
}
