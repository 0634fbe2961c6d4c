package actions

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/klytics/prospectkit/internal/ai"
	"github.com/klytics/prospectkit/internal/enrich"
	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/linkedin"
	"github.com/klytics/prospectkit/internal/pipeline"
	"github.com/klytics/prospectkit/internal/workdir"
)

type enrichBatch = enrich.BatchOptions

// biosAction fetches LinkedIn bios for the workbook named by the input,
// with optional bg and company lookups, and writes the result workbook.
func biosAction(provider ai.Provider) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("bios requires an input workbook path")
		}

		opts := enrich.BiosOptions{
			BackgroundCheck: optBool(step.Options, "bg"),
			CompanyLookup:   optBool(step.Options, "company"),
			BatchOptions:    batchOptions(step),
		}
		if (opts.BackgroundCheck || opts.CompanyLookup) && provider == nil {
			return "", fmt.Errorf("bios lookups need an AI provider — configure one or drop the bg/company options")
		}

		rows, err := xlsx.Read(input)
		if err != nil {
			return "", err
		}

		runner := &enrich.BiosRunner{Fetcher: linkedin.NewFetcher(), Provider: provider}
		rows, _, err = runner.Run(ctx, rows, opts)
		if err != nil {
			return "", err
		}

		outputPath := step.Output
		if outputPath == "" {
			outputPath = workdir.ResultPath(input, workdir.Timestamp())
		}
		return writeResult(outputPath, rows)
	}
}

// enrichAction runs investor research over the input workbook.
func enrichAction(provider ai.Provider) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("enrich requires an input workbook path")
		}
		if provider == nil {
			return "", fmt.Errorf("enrich needs an AI provider")
		}

		rows, err := xlsx.Read(input)
		if err != nil {
			return "", err
		}

		researcher := &enrich.Researcher{Provider: provider}
		rows, _, err = researcher.ResearchRows(ctx, rows, batchOptions(step))
		if err != nil {
			return "", err
		}

		outputPath := step.Output
		if outputPath == "" {
			outputPath = workdir.EnrichedPath(input, workdir.Timestamp())
		}
		return writeResult(outputPath, rows)
	}
}

// companyAction runs company info lookups over the input workbook.
func companyAction(provider ai.Provider) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("company requires an input workbook path")
		}
		if provider == nil {
			return "", fmt.Errorf("company needs an AI provider")
		}

		rows, err := xlsx.Read(input)
		if err != nil {
			return "", err
		}

		rows, _, err = enrich.CompanyInfoRows(ctx, provider, rows, batchOptions(step))
		if err != nil {
			return "", err
		}

		outputPath := step.Output
		if outputPath == "" {
			outputPath = workdir.ResultPath(input, workdir.Timestamp())
		}
		return writeResult(outputPath, rows)
	}
}

// analyzeAction runs description analysis over the input workbook.
func analyzeAction(provider ai.Provider) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("analyze requires an input workbook path")
		}
		if provider == nil {
			return "", fmt.Errorf("analyze needs an AI provider")
		}

		rows, err := xlsx.Read(input)
		if err != nil {
			return "", err
		}

		rows, _, err = enrich.AnalyzeRows(ctx, provider, rows, batchOptions(step))
		if err != nil {
			return "", err
		}

		outputPath := step.Output
		if outputPath == "" {
			outputPath = workdir.ResultPath(input, workdir.Timestamp())
		}
		return writeResult(outputPath, rows)
	}
}

func writeResult(path string, rows [][]string) (string, error) {
	if err := workdir.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := xlsx.Write(path, rows); err != nil {
		return "", err
	}
	return path, nil
}
