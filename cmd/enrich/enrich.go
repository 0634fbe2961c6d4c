// Package enrich provides the command that runs AI investor research over
// a workbook of company rows.
package enrich

import (
	"fmt"
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

type enrichJSONOutput struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// NewCommand creates the "enrich" command.
func NewCommand() *cobra.Command {
	var (
		outputPath string
		delay      float64
		startRow   int
		maxRows    int
	)

	cmd := &cobra.Command{
		Use:   "enrich <file.xlsx>",
		Short: "Research investment profiles for companies in a workbook",
		Long: `Runs an AI research lookup for every company row in the workbook:
website, investment stage, ticket size, sector focus, and strategy. The
result columns are appended to the sheet and the enriched copy is written
next to the input.

Company names are read from the first column, cities from the fourth.`,
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

			bar := progress.New("Researching", len(rows)-1)
			skipped := 0

			opts := enrichpkg.BatchOptions{
				StartRow: startRow,
				MaxRows:  maxRows,
				Delay:    time.Duration(delay * float64(time.Second)),
				OnRow: func(rowNum int, company string, values []string) {
					bar.Increment(company)
					if verbose {
						fmt.Print(researchBlock(rowNum, company, values))
					}
				},
				OnSkip: func(rowNum int, reason string) {
					skipped++
					bar.Increment(fmt.Sprintf("row %d skipped", rowNum))
				},
			}

			researcher := &enrichpkg.Researcher{Provider: provider}
			rows, processed, err := researcher.ResearchRows(cmd.Context(), rows, opts)
			if err != nil {
				return err
			}

			dest := outputPath
			if dest == "" {
				dest = workdir.EnrichedPath(input, workdir.Timestamp())
			}
			if err := xlsx.Write(dest, rows); err != nil {
				return err
			}
			bar.Finish(fmt.Sprintf("%d researched, %d skipped", processed, skipped))

			if jsonFlag {
				return output.PrintJSON("enrich", enrichJSONOutput{
					Input:     input,
					Output:    dest,
					Processed: processed,
					Skipped:   skipped,
				})
			}

			color.New(color.FgGreen).Printf("Researched %d companies (%d skipped)\n", processed, skipped)
			fmt.Printf("Wrote %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "Output .xlsx path (default <input>_enriched_<timestamp>.xlsx)")
	cmd.Flags().Float64Var(&delay, "delay", 2.0, "Seconds to wait between API calls")
	cmd.Flags().IntVar(&startRow, "start-row", 0, "First data row to process (1-based, default 2)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum number of rows to process (0 = all)")

	return cmd
}

func researchBlock(rowNum int, company string, values []string) string {
	context := []output.Field{
		{Label: "Company", Value: company},
	}
	var fields []output.Field
	for i, col := range enrichpkg.ResearchColumns {
		if i < len(values) {
			fields = append(fields, output.Field{Label: col, Value: values[i]})
		}
	}
	return output.FormatResultBlock(
		fmt.Sprintf("ROW %d RESULTS", rowNum),
		"RESEARCH RESULTS",
		context, fields,
	)
}
