// Package actions provides built-in pipeline action implementations.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/klytics/prospectkit/internal/ai"
	"github.com/klytics/prospectkit/internal/extract"
	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/pipeline"
	"github.com/klytics/prospectkit/internal/workdir"
)

// RegisterAll registers all built-in actions with the given executor. The
// provider is used by the AI-backed actions; it may be nil when the
// pipeline contains none of them (validated at call time).
func RegisterAll(exec *pipeline.Executor, provider ai.Provider) {
	exec.RegisterAction("extract", ExtractAction)
	exec.RegisterAction("workbook.read", WorkbookReadAction)
	exec.RegisterAction("workbook.write", WorkbookWriteAction)
	exec.RegisterAction("bios", biosAction(provider))
	exec.RegisterAction("enrich", enrichAction(provider))
	exec.RegisterAction("company", companyAction(provider))
	exec.RegisterAction("analyze", analyzeAction(provider))
}

// ExtractAction parses a raw text export into investor records and writes
// them to a workbook. The input is the text file path; the step's output
// field names the workbook (defaulting to a timestamped export name next
// to the input).
func ExtractAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("extract requires an input file path")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", input, err)
	}

	records := extract.Records(string(data), input)
	if len(records) == 0 {
		return "", fmt.Errorf("no investor records found in %s", input)
	}

	outputPath := step.Output
	if outputPath == "" {
		outputPath = workdir.ExportPath(".", workdir.Timestamp())
	}

	if err := xlsx.Write(outputPath, extract.Table(records)); err != nil {
		return "", err
	}
	return outputPath, nil
}

// WorkbookReadAction reads a workbook and returns its rows as JSON.
func WorkbookReadAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("workbook.read requires an input file path")
	}

	rows, err := xlsx.Read(input)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("could not serialize workbook data: %w", err)
	}
	return string(data), nil
}

// WorkbookWriteAction writes JSON rows (from a previous step) to a workbook.
func WorkbookWriteAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if step.Output == "" {
		return "", fmt.Errorf("workbook.write requires an output path")
	}

	var rows [][]string
	if err := json.Unmarshal([]byte(input), &rows); err != nil {
		return "", fmt.Errorf("workbook.write input is not a JSON row table: %w", err)
	}

	if err := xlsx.Write(step.Output, rows); err != nil {
		return "", err
	}
	return step.Output, nil
}

// optDuration reads a float seconds option like "2.5".
func optDuration(opts map[string]string, key string, def time.Duration) time.Duration {
	v, ok := opts[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return time.Duration(f * float64(time.Second))
}

func optInt(opts map[string]string, key string) int {
	n, _ := strconv.Atoi(opts[key])
	return n
}

func optBool(opts map[string]string, key string) bool {
	return opts[key] == "true"
}

// batchOptions builds the shared row-batch options from step options.
func batchOptions(step pipeline.Step) enrichBatch {
	return enrichBatch{
		StartRow: optInt(step.Options, "start_row"),
		MaxRows:  optInt(step.Options, "max_rows"),
		Delay:    optDuration(step.Options, "delay", 0),
	}
}
