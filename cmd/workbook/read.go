package workbook

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/output"
)

func newReadCommand() *cobra.Command {
	var csvOutput bool
	var maxRows int

	cmd := &cobra.Command{
		Use:   "read <file.xlsx>",
		Short: "Extract row data from a workbook",
		Long:  "Reads an .xlsx file and outputs its first sheet. Supports JSON, CSV, and pretty-printed table output. Pass '-' to read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			var rows [][]string
			var err error

			if len(args) == 0 || args[0] == "-" {
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("could not read from stdin: %w", readErr)
				}
				if len(data) == 0 {
					return fmt.Errorf("no input provided — pass an .xlsx file path or pipe data to stdin")
				}
				rows, err = xlsx.ReadBytes(data)
			} else {
				filePath := args[0]
				if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
					return fmt.Errorf("expected an .xlsx file, got %q — use 'prospect workbook read <file.xlsx>'", filePath)
				}
				rows, err = xlsx.Read(filePath)
			}

			if err != nil {
				return err
			}

			if maxRows > 0 && len(rows) > maxRows {
				rows = rows[:maxRows]
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			if csvOutput {
				w := csv.NewWriter(os.Stdout)
				if err := w.WriteAll(rows); err != nil {
					return fmt.Errorf("could not write CSV: %w", err)
				}
				return nil
			}

			rendered := renderTable(rows)
			if output.ShouldPage(rendered, 40) {
				return output.Page(rendered)
			}
			fmt.Print(rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output as CSV")
	cmd.Flags().IntVar(&maxRows, "rows", 0, "Limit output to the first N rows (0 = all)")

	return cmd
}

func renderTable(rows [][]string) string {
	var sb strings.Builder
	dim := color.New(color.FgHiBlack)

	if len(rows) == 0 {
		return dim.Sprint("  (empty)\n")
	}

	// Calculate column widths
	colWidths := make([]int, 0)
	for _, row := range rows {
		for j, cell := range row {
			for len(colWidths) <= j {
				colWidths = append(colWidths, 0)
			}
			if len(cell) > colWidths[j] {
				colWidths[j] = len(cell)
			}
		}
	}

	// Cap column widths
	for i := range colWidths {
		if colWidths[i] > 40 {
			colWidths[i] = 40
		}
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	// Header row and separator
	sb.WriteString(formatRow(rows[0], colWidths, color.New(color.Bold)))
	sb.WriteString("  ")
	for j, w := range colWidths {
		if j > 0 {
			sb.WriteString(dim.Sprint("+-"))
		}
		sb.WriteString(dim.Sprint(strings.Repeat("-", w+1)))
	}
	sb.WriteString("\n")

	// Data rows
	for i := 1; i < len(rows); i++ {
		sb.WriteString(formatRow(rows[i], colWidths, nil))
	}

	sb.WriteString(dim.Sprintf("  (%d rows)\n", len(rows)-1))
	return sb.String()
}

func formatRow(row []string, colWidths []int, style *color.Color) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for j := range colWidths {
		if j > 0 {
			sb.WriteString("| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if len(cell) > colWidths[j] {
			cell = cell[:colWidths[j]-1] + "~"
		}
		padded := cell + strings.Repeat(" ", colWidths[j]-len(cell)+1)
		if style != nil {
			sb.WriteString(style.Sprint(padded))
		} else {
			sb.WriteString(padded)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
