// Package workbook provides CLI commands for reading and writing .xlsx
// workbooks.
package workbook

import "github.com/spf13/cobra"

// NewCommand returns the workbook subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Read and write Excel workbooks (.xlsx)",
		Long:  "Commands for working with .xlsx workbooks — extract row data and generate spreadsheets from JSON or CSV.",
	}

	cmd.AddCommand(newReadCommand())
	cmd.AddCommand(newWriteCommand())

	return cmd
}
