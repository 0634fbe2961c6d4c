package actions

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/pipeline"
)

const sampleExport = `
Investor Nordic Ventures logo
B2B B2C
Nordic Ventures invests in early stage software companies across the Nordics.
Team of 12 • Anna Virtanen, Mikael Berg
Notable Investments
Wolt, Supermetrics
Ticket Size
100k-2M
View company
`

func TestExtractAction(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.txt")
	if err := os.WriteFile(input, []byte(sampleExport), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.xlsx")

	step := pipeline.Step{ID: "x", Action: "extract", Input: input, Output: output}
	got, err := ExtractAction(context.Background(), step, input)
	if err != nil {
		t.Fatal(err)
	}
	if got != output {
		t.Errorf("output path = %q, want %q", got, output)
	}

	rows, err := xlsx.Read(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 record", len(rows))
	}
	if rows[1][0] != "Nordic Ventures" {
		t.Errorf("company name = %q", rows[1][0])
	}
}

func TestExtractActionMissingInput(t *testing.T) {
	_, err := ExtractAction(context.Background(), pipeline.Step{ID: "x", Action: "extract"}, "")
	if err == nil || !strings.Contains(err.Error(), "extract requires an input file path") {
		t.Fatalf("err = %v", err)
	}
}

func TestExtractActionNoRecords(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(input, []byte("nothing useful here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractAction(context.Background(), pipeline.Step{ID: "x", Action: "extract", Input: input}, input)
	if err == nil || !strings.Contains(err.Error(), "no investor records found") {
		t.Fatalf("err = %v", err)
	}
}

func TestWorkbookReadWriteFlow(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.xlsx")
	dst := filepath.Join(dir, "dst.xlsx")
	if err := xlsx.Write(src, [][]string{{"Name"}, {"Acme"}}); err != nil {
		t.Fatal(err)
	}

	exec := pipeline.NewExecutor(false)
	RegisterAll(exec, nil)

	p := &pipeline.Pipeline{
		Name:    "copy",
		Version: "1.0",
		Steps: []pipeline.Step{
			{ID: "read", Action: "workbook.read", Input: src},
			{ID: "write", Action: "workbook.write", Input: "${{ steps.read.output }}", Output: dst},
		},
	}

	results, err := exec.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	rows, err := xlsx.Read(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "Acme" {
		t.Errorf("round trip rows = %v", rows)
	}
}

func TestWorkbookWriteBadInput(t *testing.T) {
	dir := t.TempDir()
	step := pipeline.Step{ID: "w", Action: "workbook.write", Output: filepath.Join(dir, "out.xlsx")}
	_, err := WorkbookWriteAction(context.Background(), step, "not json")
	if err == nil || !strings.Contains(err.Error(), "not a JSON row table") {
		t.Fatalf("err = %v", err)
	}
}

func TestBiosActionNeedsProviderForLookups(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")
	if err := xlsx.Write(input, [][]string{{"LinkedIn Page"}, {""}}); err != nil {
		t.Fatal(err)
	}

	action := biosAction(nil)
	step := pipeline.Step{
		ID:      "b",
		Action:  "bios",
		Input:   input,
		Options: map[string]string{"bg": "true"},
	}
	_, err := action(context.Background(), step, input)
	if err == nil || !strings.Contains(err.Error(), "AI provider") {
		t.Fatalf("err = %v", err)
	}
}

func TestEnrichActionNeedsProvider(t *testing.T) {
	action := enrichAction(nil)
	step := pipeline.Step{ID: "e", Action: "enrich", Input: "x.xlsx"}
	_, err := action(context.Background(), step, "x.xlsx")
	if err == nil || !strings.Contains(err.Error(), "AI provider") {
		t.Fatalf("err = %v", err)
	}
}

// TestRegisterAllActions verifies every built-in action is registered:
// steps may fail on missing files, but never with "unknown action".
func TestRegisterAllActions(t *testing.T) {
	exec := pipeline.NewExecutor(false)
	RegisterAll(exec, nil)

	names := []string{
		"extract",
		"workbook.read",
		"workbook.write",
		"bios",
		"enrich",
		"company",
		"analyze",
	}

	p := &pipeline.Pipeline{
		Name:    "registration",
		Version: "1.0",
		Steps:   make([]pipeline.Step, len(names)),
	}
	for i, name := range names {
		p.Steps[i] = pipeline.Step{
			ID:        name,
			Action:    name,
			Input:     "missing-input",
			OnFailure: "skip",
		}
	}

	results, err := exec.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run with on_failure=skip should not fail: %v", err)
	}
	if len(results) != len(names) {
		t.Fatalf("results = %d, want %d", len(results), len(names))
	}
	for i, r := range results {
		if r.Error != nil && strings.Contains(r.Error.Error(), "unknown action") {
			t.Errorf("action %q not registered: %s", names[i], r.Error)
		}
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := map[string]string{"delay": "1.5", "start_row": "3", "bg": "true"}

	if d := optDuration(opts, "delay", 0); d.Seconds() != 1.5 {
		t.Errorf("delay = %v", d)
	}
	if d := optDuration(opts, "missing", 0); d != 0 {
		t.Errorf("missing delay = %v", d)
	}
	if n := optInt(opts, "start_row"); n != 3 {
		t.Errorf("start_row = %d", n)
	}
	if !optBool(opts, "bg") {
		t.Error("bg should be true")
	}
	if optBool(opts, "company") {
		t.Error("company should be false")
	}
}
