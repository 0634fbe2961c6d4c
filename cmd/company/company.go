// Package company provides the command that fetches company facts — revenue,
// CEO, LinkedIn profile — for workbook rows.
package company

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/ai"
	enrichpkg "github.com/klytics/prospectkit/internal/enrich"
	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/output"
	"github.com/klytics/prospectkit/internal/progress"
	"github.com/klytics/prospectkit/internal/workdir"
)

type companyJSONOutput struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// NewCommand creates the "company" command.
func NewCommand() *cobra.Command {
	var (
		outputPath string
		delay      float64
		startRow   int
		maxRows    int
	)

	cmd := &cobra.Command{
		Use:   "company <file.xlsx>",
		Short: "Fetch revenue and CEO information for companies in a workbook",
		Long: `Runs a web-search-backed AI lookup for every company row: latest
known revenue, CEO name, a short CEO bio, and the CEO's LinkedIn profile
URL. Results are appended as AI_ columns and the workbook is written to
the Results directory.

The company name is read from the column named company_name when present,
otherwise from the first column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			input := args[0]
			rows, err := xlsx.Read(input)
			if err != nil {
				return err
			}

			provider, err := ai.NewProvider(providerName, modelName)
			if err != nil {
				return err
			}

			bar := progress.New("Fetching", len(rows)-1)
			skipped := 0

			opts := enrichpkg.BatchOptions{
				StartRow: startRow,
				MaxRows:  maxRows,
				Delay:    time.Duration(delay * float64(time.Second)),
				OnRow: func(rowNum int, company string, values []string) {
					bar.Increment(company)
					if verbose {
						fmt.Print(companyBlock(rowNum, company, values))
					}
				},
				OnSkip: func(rowNum int, reason string) {
					skipped++
					bar.Increment(fmt.Sprintf("row %d skipped", rowNum))
				},
			}

			rows, processed, err := enrichpkg.CompanyInfoRows(cmd.Context(), provider, rows, opts)
			if err != nil {
				return err
			}

			dest := outputPath
			if dest == "" {
				dest = workdir.ResultPath(input, workdir.Timestamp())
			}
			if err := workdir.EnsureDir(filepath.Dir(dest)); err != nil {
				return err
			}
			if err := xlsx.Write(dest, rows); err != nil {
				return err
			}
			bar.Finish(fmt.Sprintf("%d fetched, %d skipped", processed, skipped))

			if jsonFlag {
				return output.PrintJSON("company", companyJSONOutput{
					Input:     input,
					Output:    dest,
					Processed: processed,
					Skipped:   skipped,
				})
			}

			color.New(color.FgGreen).Printf("Fetched info for %d companies (%d skipped)\n", processed, skipped)
			fmt.Printf("Wrote %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "Output .xlsx path (default Results/<timestamp>_<input>.xlsx)")
	cmd.Flags().Float64Var(&delay, "delay", 2.0, "Seconds to wait between API calls")
	cmd.Flags().IntVar(&startRow, "start-row", 0, "First data row to process (1-based, default 2)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum number of rows to process (0 = all)")

	return cmd
}

func companyBlock(rowNum int, company string, values []string) string {
	context := []output.Field{
		{Label: "Company", Value: company},
	}
	var fields []output.Field
	for i, col := range enrichpkg.CompanyInfoColumns {
		if i < len(values) {
			fields = append(fields, output.Field{Label: col, Value: values[i]})
		}
	}
	return output.FormatResultBlock(
		fmt.Sprintf("ROW %d COMPANY INFO FETCH", rowNum),
		"FETCHED INFORMATION",
		context, fields,
	)
}
