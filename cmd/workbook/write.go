package workbook

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/formats/xlsx"
)

type writeInput struct {
	Headers []string        `json:"headers,omitempty"`
	Rows    [][]interface{} `json:"rows"`
}

type writeJSONOutput struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
}

func newWriteCommand() *cobra.Command {
	var (
		output   string
		dataPath string
		fromCSV  bool
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Generate a workbook from data",
		Long: `Creates an .xlsx file from structured JSON or CSV data.

JSON format:
  {"headers": ["A","B"], "rows": [["a1","b1"]]}

A plain JSON array of rows (as produced by 'prospect workbook read --json')
is also accepted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			if output == "" {
				return fmt.Errorf("--output is required — specify the output .xlsx path\n\nExample: prospect workbook write --output data.xlsx --data input.json")
			}

			if !strings.HasSuffix(strings.ToLower(output), ".xlsx") {
				output += ".xlsx"
			}

			if dataPath == "" {
				return fmt.Errorf("--data is required — provide a data file or - for stdin\n\nExample: prospect workbook write --output data.xlsx --data input.json")
			}

			// Read input data
			var raw []byte
			var err error
			if dataPath == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(dataPath)
			}
			if err != nil {
				return fmt.Errorf("could not read data: %w", err)
			}

			var rows [][]string
			if fromCSV {
				rows, err = csv.NewReader(strings.NewReader(string(raw))).ReadAll()
				if err != nil {
					return fmt.Errorf("invalid CSV data: %w", err)
				}
			} else {
				rows, err = parseJSONRows(raw)
				if err != nil {
					return err
				}
			}

			if len(rows) == 0 {
				return fmt.Errorf("no rows to write — the data file is empty")
			}

			if err := xlsx.Write(output, rows); err != nil {
				return fmt.Errorf("could not write file: %w", err)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(writeJSONOutput{File: output, Rows: len(rows)})
			}

			fmt.Printf("Wrote %s (%d rows)\n", output, len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output .xlsx file path (required)")
	cmd.Flags().StringVar(&dataPath, "data", "", "Path to data file (or - for stdin)")
	cmd.Flags().BoolVar(&fromCSV, "csv", false, "Treat the data file as CSV instead of JSON")

	return cmd
}

func parseJSONRows(raw []byte) ([][]string, error) {
	// Structured format first
	var input writeInput
	if err := json.Unmarshal(raw, &input); err == nil && len(input.Rows) > 0 {
		var rows [][]string
		if len(input.Headers) > 0 {
			rows = append(rows, input.Headers)
		}
		for _, row := range input.Rows {
			var strRow []string
			for _, cell := range row {
				strRow = append(strRow, fmt.Sprintf("%v", cell))
			}
			rows = append(rows, strRow)
		}
		return rows, nil
	}

	// Plain array of string rows (from 'workbook read --json')
	var rows [][]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w — expected {\"rows\": [...]} or [[...],[...]]", err)
	}
	return rows, nil
}
